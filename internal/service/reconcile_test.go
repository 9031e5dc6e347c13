package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spazahub/spaza_api/internal/models"
)

func testOrder(total string) *models.Order {
	return &models.Order{
		ID:         42,
		CustomerID: 7,
		BranchID:   1,
		BranchName: "Soweto Corner Spaza",
		Status:     models.OrderPendingDelivery,
		Total:      d(total),
	}
}

func testItem(bpID int, name, orderPrice, currentPrice string, qty int) models.OrderedProduct {
	return models.OrderedProduct{
		OrderID:         42,
		BranchProductID: bpID,
		ProductID:       bpID + 100,
		ProductName:     name,
		QuantityOrdered: qty,
		OrderPrice:      d(orderPrice),
		CurrentPrice:    d(currentPrice),
		InStock:         true,
		IsActive:        true,
	}
}

func noCampaign(models.OrderedProduct) *models.SaleCampaign { return nil }

func TestBuildOrderChangesUnchanged(t *testing.T) {
	now := time.Now()
	order := testOrder("150.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 1),
		testItem(11, "Sunflower oil 2L", "50.00", "50.00", 1),
	}

	changes := BuildOrderChanges(order, items, noCampaign, now)

	assert.Empty(t, changes.PriceChanges)
	assert.Empty(t, changes.OutOfStock)
	assert.Empty(t, changes.NoLongerSold)
	assert.True(t, d("150.00").Equal(changes.OldTotal))
	assert.True(t, changes.NewTotal.IsZero(), "unchanged orders sum to zero, got %s", changes.NewTotal)
}

func TestBuildOrderChangesPriceDrop(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "80.00", 1),
	}

	changes := BuildOrderChanges(order, items, noCampaign, now)

	require.Contains(t, changes.PriceChanges, 10)
	entry := changes.PriceChanges[10]
	assert.True(t, d("100.00").Equal(entry.PreviousOrderPrice))
	assert.True(t, d("80.00").Equal(entry.NewOrderPrice))
	assert.Nil(t, entry.SaleCampaignPrice)
	assert.True(t, d("80.00").Equal(changes.NewTotal))
}

func TestBuildOrderChangesCampaignOverlay(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "80.00", 1),
	}
	campaign := testCampaign("10", now)
	campaignFor := func(models.OrderedProduct) *models.SaleCampaign { return campaign }

	changes := BuildOrderChanges(order, items, campaignFor, now)

	require.Contains(t, changes.PriceChanges, 10)
	entry := changes.PriceChanges[10]
	assert.True(t, d("100.00").Equal(entry.PreviousOrderPrice))
	assert.True(t, d("80.00").Equal(entry.NewOrderPrice))
	require.NotNil(t, entry.SaleCampaignPrice)
	assert.True(t, d("72.00").Equal(*entry.SaleCampaignPrice), "campaign applies to the current price, got %s", entry.SaleCampaignPrice)
	assert.True(t, d("72.00").Equal(changes.NewTotal), "sale price wins in the total")
}

func TestBuildOrderChangesCampaignWithoutPriceChange(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 1),
	}
	campaign := testCampaign("10", now)
	campaignFor := func(models.OrderedProduct) *models.SaleCampaign { return campaign }

	// A running campaign alone does not create a price change entry; the
	// diff tracks catalog price drift only.
	changes := BuildOrderChanges(order, items, campaignFor, now)
	assert.Empty(t, changes.PriceChanges)
	assert.True(t, changes.NewTotal.IsZero())
}

func TestBuildOrderChangesStockAndAvailability(t *testing.T) {
	now := time.Now()
	order := testOrder("180.00")

	oos := testItem(10, "Maize meal 5kg", "100.00", "100.00", 1)
	oos.InStock = false
	gone := testItem(11, "Sunflower oil 2L", "50.00", "55.00", 1)
	gone.IsActive = false
	goneAndOut := testItem(12, "White bread", "30.00", "30.00", 1)
	goneAndOut.InStock = false
	goneAndOut.IsActive = false

	changes := BuildOrderChanges(order, []models.OrderedProduct{oos, gone, goneAndOut}, noCampaign, now)

	assert.Len(t, changes.OutOfStock, 2)
	assert.Len(t, changes.NoLongerSold, 2)
	// Inactive items are excluded from price diffing even when their price
	// moved.
	assert.Empty(t, changes.PriceChanges)
}

func TestBuildOrderChangesNewTotalSkipsUnchangedItems(t *testing.T) {
	now := time.Now()
	order := testOrder("150.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "80.00", 1),
		testItem(11, "Sunflower oil 2L", "50.00", "50.00", 1),
	}

	changes := BuildOrderChanges(order, items, noCampaign, now)

	// Only the changed item contributes to the new total.
	assert.True(t, d("80.00").Equal(changes.NewTotal), "got %s", changes.NewTotal)
}

func TestBuildRepeatProposalBasic(t *testing.T) {
	now := time.Now()
	order := testOrder("200.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 2),
	}

	proposal := BuildRepeatProposal(order, items, noCampaign, now)

	require.Len(t, proposal.ProductList, 1)
	assert.Equal(t, 2, proposal.ProductList[0].QuantityOrdered)
	assert.Equal(t, "R 200.00", proposal.NewCost)
	assert.Empty(t, proposal.OutOfStock)
	assert.Empty(t, proposal.PriceChanges)
}

func TestBuildRepeatProposalOutOfStockExcluded(t *testing.T) {
	now := time.Now()
	order := testOrder("230.00")

	inStock := testItem(10, "Maize meal 5kg", "100.00", "100.00", 2)
	oos := testItem(11, "White bread", "30.00", "30.00", 1)
	oos.InStock = false

	proposal := BuildRepeatProposal(order, []models.OrderedProduct{inStock, oos}, noCampaign, now)

	require.Len(t, proposal.OutOfStock, 1)
	assert.Equal(t, "White bread", proposal.OutOfStock[0].Name)
	require.Len(t, proposal.ProductList, 1)
	assert.Equal(t, "R 200.00", proposal.NewCost, "out-of-stock items must not contribute to the cost")
}

func TestBuildRepeatProposalProductScopedCampaign(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 1),
	}

	exact := testCampaign("20", now)
	exact.BranchProductID = intPtr(10)
	campaignFor := func(models.OrderedProduct) *models.SaleCampaign { return exact }

	proposal := BuildRepeatProposal(order, items, campaignFor, now)

	require.Len(t, proposal.ProductList, 1)
	assert.True(t, d("80.00").Equal(proposal.ProductList[0].CurrentPrice))
	assert.Equal(t, "R 80.00", proposal.NewCost)
	require.Len(t, proposal.PriceChanges, 1)
	assert.True(t, d("80.00").Equal(proposal.PriceChanges[0].CurrentPrice))
}

func TestBuildRepeatProposalBranchWideCampaignIgnored(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 1),
	}

	branchWide := testCampaign("20", now)
	campaignFor := func(models.OrderedProduct) *models.SaleCampaign { return branchWide }

	// Repeat pricing only honors campaigns scoped to the exact product.
	proposal := BuildRepeatProposal(order, items, campaignFor, now)
	assert.Equal(t, "R 100.00", proposal.NewCost)
	assert.Empty(t, proposal.PriceChanges)
}

func TestBuildRepeatProposalExpiredCampaignIgnored(t *testing.T) {
	now := time.Now()
	order := testOrder("100.00")
	items := []models.OrderedProduct{
		testItem(10, "Maize meal 5kg", "100.00", "100.00", 1),
	}

	expired := testCampaign("20", now)
	expired.BranchProductID = intPtr(10)
	expired.CampaignEnds = now.Add(-time.Hour)
	campaignFor := func(models.OrderedProduct) *models.SaleCampaign { return expired }

	proposal := BuildRepeatProposal(order, items, campaignFor, now)
	assert.Equal(t, "R 100.00", proposal.NewCost)
}
