package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(i int) *int { return &i }

func testBranchProduct(price string) *models.BranchProduct {
	return &models.BranchProduct{
		ID:       10,
		BranchID: 1,
		Price:    d(price),
		InStock:  true,
		IsActive: true,
	}
}

func testCampaign(pct string, now time.Time) *models.SaleCampaign {
	return &models.SaleCampaign{
		ID:            5,
		BranchID:      1,
		Name:          "Weekend special",
		PercentageOff: d(pct),
		Active:        true,
		CampaignEnds:  now.Add(48 * time.Hour),
		LastUpdated:   now,
	}
}

func TestEffectivePrice(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		price    string
		campaign func() *models.SaleCampaign
		want     string
	}{
		{
			name:     "no campaign returns full price",
			price:    "100.00",
			campaign: func() *models.SaleCampaign { return nil },
			want:     "100.00",
		},
		{
			name:     "ten percent off",
			price:    "100.00",
			campaign: func() *models.SaleCampaign { return testCampaign("10", now) },
			want:     "90.00",
		},
		{
			name:     "zero percent is a no-op",
			price:    "49.99",
			campaign: func() *models.SaleCampaign { return testCampaign("0", now) },
			want:     "49.99",
		},
		{
			name:     "max discount halves the price",
			price:    "80.00",
			campaign: func() *models.SaleCampaign { return testCampaign("50", now) },
			want:     "40.00",
		},
		{
			name:  "rounds to cents",
			price: "9.99",
			campaign: func() *models.SaleCampaign {
				return testCampaign("15", now)
			},
			want: "8.49",
		},
		{
			name:  "inactive campaign ignored",
			price: "100.00",
			campaign: func() *models.SaleCampaign {
				c := testCampaign("25", now)
				c.Active = false
				return c
			},
			want: "100.00",
		},
		{
			name:  "expired campaign ignored",
			price: "100.00",
			campaign: func() *models.SaleCampaign {
				c := testCampaign("25", now)
				c.CampaignEnds = now.Add(-time.Hour)
				return c
			},
			want: "100.00",
		},
		{
			name:  "campaign scoped to another product ignored",
			price: "100.00",
			campaign: func() *models.SaleCampaign {
				c := testCampaign("25", now)
				c.BranchProductID = intPtr(999)
				return c
			},
			want: "100.00",
		},
		{
			name:  "campaign scoped to this product applies",
			price: "100.00",
			campaign: func() *models.SaleCampaign {
				c := testCampaign("25", now)
				c.BranchProductID = intPtr(10)
				return c
			},
			want: "75.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := testBranchProduct(tt.price)
			got := EffectivePrice(bp, tt.campaign(), now)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEffectivePriceStagedDiscountNotApplied(t *testing.T) {
	now := time.Now()
	c := testCampaign("10", now)
	staged := d("40")
	c.DelayedPercentageOff = &staged

	// The staged value must stay dormant until promoted by the worker.
	got := EffectivePrice(testBranchProduct("100.00"), c, now)
	assert.True(t, d("90.00").Equal(got), "staged discount leaked into pricing: got %s", got)
}

func TestValidatePercentage(t *testing.T) {
	tests := []struct {
		pct     string
		wantErr bool
	}{
		{"0", false},
		{"0.5", false},
		{"12.5", false},
		{"50", false},
		{"50.01", true},
		{"51", true},
		{"100", true},
		{"-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			err := ValidatePercentage(d(tt.pct))
			if tt.wantErr {
				assert.ErrorIs(t, err, utils.ErrInvalidPercentage)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStageDiscount(t *testing.T) {
	now := time.Now()

	t.Run("stages new percentage without touching active one", func(t *testing.T) {
		c := testCampaign("10", now.Add(-time.Hour))
		changed, err := StageDiscount(c, d("20"), now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, d("10").Equal(c.PercentageOff))
		require.NotNil(t, c.DelayedPercentageOff)
		assert.True(t, d("20").Equal(*c.DelayedPercentageOff))
		assert.Equal(t, now, c.LastUpdated)
	})

	t.Run("restaging the same value is a no-op", func(t *testing.T) {
		c := testCampaign("10", now.Add(-time.Hour))
		staged := d("20")
		c.DelayedPercentageOff = &staged
		prevUpdated := c.LastUpdated

		changed, err := StageDiscount(c, d("20"), now)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, prevUpdated, c.LastUpdated, "idempotent restage must not reset the cooldown")
	})

	t.Run("rejects out-of-range percentage", func(t *testing.T) {
		c := testCampaign("10", now)
		_, err := StageDiscount(c, d("75"), now)
		assert.ErrorIs(t, err, utils.ErrInvalidPercentage)
		assert.Nil(t, c.DelayedPercentageOff)
	})
}

func TestPromoteDelayed(t *testing.T) {
	base := time.Now()

	t.Run("no staged change", func(t *testing.T) {
		c := testCampaign("10", base)
		assert.False(t, PromoteDelayed(c, base.Add(models.DiscountCooldown)))
	})

	t.Run("too early", func(t *testing.T) {
		c := testCampaign("10", base)
		staged := d("20")
		c.DelayedPercentageOff = &staged
		c.LastUpdated = base

		assert.False(t, PromoteDelayed(c, base.Add(models.DiscountCooldown-time.Minute)))
		assert.True(t, d("10").Equal(c.PercentageOff))
		assert.NotNil(t, c.DelayedPercentageOff)
	})

	t.Run("promotes after cooldown", func(t *testing.T) {
		c := testCampaign("10", base)
		staged := d("20")
		c.DelayedPercentageOff = &staged
		c.LastUpdated = base

		promoted := PromoteDelayed(c, base.Add(models.DiscountCooldown))
		assert.True(t, promoted)
		assert.True(t, d("20").Equal(c.PercentageOff))
		assert.Nil(t, c.DelayedPercentageOff)
	})
}

func TestFormatRand(t *testing.T) {
	assert.Equal(t, "R 200.00", FormatRand(d("200")))
	assert.Equal(t, "R 19.90", FormatRand(d("19.9")))
	assert.Equal(t, "R 0.00", FormatRand(decimal.Zero))
}
