package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

var (
	hundred        = decimal.NewFromInt(100)
	maxPercentage  = decimal.NewFromInt(50)
	zeroPercentage = decimal.Zero
)

// EffectivePrice returns the branch price with the campaign's discount
// applied, rounded to 2 decimals. When no campaign applies to the branch
// product at the given instant, the raw branch price is returned unchanged.
func EffectivePrice(bp *models.BranchProduct, c *models.SaleCampaign, now time.Time) decimal.Decimal {
	if !c.AppliesTo(bp, now) {
		return bp.Price
	}
	factor := decimal.NewFromInt(1).Sub(c.PercentageOff.Div(hundred))
	return bp.Price.Mul(factor).Round(2)
}

// ValidatePercentage enforces the 0-50 inclusive discount range. Values
// outside the range are rejected, never clamped.
func ValidatePercentage(pct decimal.Decimal) error {
	if pct.LessThan(zeroPercentage) || pct.GreaterThan(maxPercentage) {
		return utils.ErrInvalidPercentage
	}
	return nil
}

// StageDiscount validates and stages a percentage change on the campaign.
// The active percentage stays untouched; the new value goes into
// DelayedPercentageOff and the cooldown clock restarts. Staging a value that
// is already active or already staged is a no-op, so repeated updates with
// the same value never reset the cooldown. Returns true when a change was
// staged.
func StageDiscount(c *models.SaleCampaign, pct decimal.Decimal, now time.Time) (bool, error) {
	if err := ValidatePercentage(pct); err != nil {
		return false, err
	}
	if c.DelayedPercentageOff != nil {
		if c.DelayedPercentageOff.Equal(pct) {
			return false, nil
		}
	} else if c.PercentageOff.Equal(pct) {
		return false, nil
	}
	staged := pct
	c.DelayedPercentageOff = &staged
	c.LastUpdated = now
	return true, nil
}

// PromoteDelayed applies a staged discount once the cooldown window since
// LastUpdated has elapsed. Returns true when the promotion happened. Calling
// it early is harmless: the staged value stays pending.
func PromoteDelayed(c *models.SaleCampaign, now time.Time) bool {
	if c.DelayedPercentageOff == nil {
		return false
	}
	if now.Before(c.LastUpdated.Add(models.DiscountCooldown)) {
		return false
	}
	c.PercentageOff = *c.DelayedPercentageOff
	c.DelayedPercentageOff = nil
	c.LastUpdated = now
	return true
}

// FormatRand renders a decimal amount as a Rand string, e.g. "R 200.00".
func FormatRand(amount decimal.Decimal) string {
	return "R " + amount.StringFixed(2)
}
