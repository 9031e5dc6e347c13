package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
)

// PriceChange records how one line item's price moved since the order was
// placed. SaleCampaignPrice is set when an active campaign currently covers
// the item; it takes precedence over NewOrderPrice in the new total.
type PriceChange struct {
	PreviousOrderPrice decimal.Decimal  `json:"previous_order_price"`
	NewOrderPrice      decimal.Decimal  `json:"new_order_price"`
	SaleCampaignPrice  *decimal.Decimal `json:"sale_campaign_price,omitempty"`
}

// ChangedItem identifies a line item flagged as out of stock or no longer
// sold.
type ChangedItem struct {
	BranchProductID int    `json:"branch_product_id"`
	ProductName     string `json:"product_name"`
}

// OrderChanges is the read-only diff between an order's snapshotted prices
// and the current catalog/campaign state.
type OrderChanges struct {
	Branch       string              `json:"branch"`
	OrderID      int                 `json:"order_id"`
	PriceChanges map[int]PriceChange `json:"price_changes"`
	OutOfStock   []ChangedItem       `json:"out_of_stock"`
	NoLongerSold []ChangedItem       `json:"no_longer_sold"`
	OldTotal     decimal.Decimal     `json:"old_total"`
	NewTotal     decimal.Decimal     `json:"new_total"`
}

// BuildOrderChanges diffs an order's line items against current branch
// product state. campaignFor resolves the currently applicable campaign for a
// line item, or nil.
//
// The new total sums only items with a recorded price change; unchanged
// items are excluded. Existing clients depend on this, so keep it until they
// migrate.
func BuildOrderChanges(order *models.Order, items []models.OrderedProduct, campaignFor func(models.OrderedProduct) *models.SaleCampaign, now time.Time) *OrderChanges {
	changes := &OrderChanges{
		Branch:       order.BranchName,
		OrderID:      order.ID,
		PriceChanges: make(map[int]PriceChange),
		OutOfStock:   []ChangedItem{},
		NoLongerSold: []ChangedItem{},
		OldTotal:     order.Total,
	}

	newTotal := decimal.Zero
	for _, item := range items {
		// Stock and availability flags apply to every line item, active
		// or not, and are independent of each other.
		ref := ChangedItem{BranchProductID: item.BranchProductID, ProductName: item.ProductName}
		if !item.InStock {
			changes.OutOfStock = append(changes.OutOfStock, ref)
		}
		if !item.IsActive {
			changes.NoLongerSold = append(changes.NoLongerSold, ref)
			continue
		}

		if item.CurrentPrice.Equal(item.OrderPrice) {
			continue
		}

		entry := PriceChange{
			PreviousOrderPrice: item.OrderPrice,
			NewOrderPrice:      item.CurrentPrice,
		}
		if c := campaignFor(item); c != nil {
			bp := models.BranchProduct{
				ID:       item.BranchProductID,
				BranchID: order.BranchID,
				Price:    item.CurrentPrice,
			}
			salePrice := EffectivePrice(&bp, c, now)
			entry.SaleCampaignPrice = &salePrice
			newTotal = newTotal.Add(salePrice)
		} else {
			newTotal = newTotal.Add(entry.NewOrderPrice)
		}
		changes.PriceChanges[item.BranchProductID] = entry
	}

	changes.NewTotal = newTotal
	return changes
}

// RepeatItem is one line of a repeat-order proposal.
type RepeatItem struct {
	ProductID       int             `json:"product_id"`
	Name            string          `json:"name"`
	QuantityOrdered int             `json:"quantity_ordered"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
}

// RepeatPriceChange notes a price drift between order time and now.
type RepeatPriceChange struct {
	BranchProductID    int             `json:"branch_product_id"`
	PreviousOrderPrice decimal.Decimal `json:"previous_order_price"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
}

// RepeatBranch identifies the branch a repeat order would go to.
type RepeatBranch struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RepeatProposal is the advisory (non-mutating) result of a repeat-order
// request: a fully priced breakdown the client can turn into a new checkout.
type RepeatProposal struct {
	OrderID      int                 `json:"order_id"`
	Branch       RepeatBranch        `json:"branch"`
	ProductList  []RepeatItem        `json:"product_list"`
	NewCost      string              `json:"new_cost"`
	OutOfStock   []RepeatItem        `json:"out_of_stock"`
	PriceChanges []RepeatPriceChange `json:"price_changes"`
}

// BuildRepeatProposal prices a re-order of the given line items at today's
// prices. In-stock items are priced at the campaign-adjusted special price
// when a campaign scoped to that exact branch product is active and not past
// its end date; out-of-stock items are listed separately and excluded from
// the cost.
func BuildRepeatProposal(order *models.Order, items []models.OrderedProduct, campaignFor func(models.OrderedProduct) *models.SaleCampaign, now time.Time) *RepeatProposal {
	proposal := &RepeatProposal{
		OrderID:      order.ID,
		Branch:       RepeatBranch{ID: order.BranchID, Name: order.BranchName},
		ProductList:  []RepeatItem{},
		OutOfStock:   []RepeatItem{},
		PriceChanges: []RepeatPriceChange{},
	}

	newCost := decimal.Zero
	for _, item := range items {
		entry := RepeatItem{
			ProductID:       item.ProductID,
			Name:            item.ProductName,
			QuantityOrdered: item.QuantityOrdered,
			CurrentPrice:    item.CurrentPrice,
		}
		if !item.InStock {
			proposal.OutOfStock = append(proposal.OutOfStock, entry)
			continue
		}

		special := item.CurrentPrice
		if c := campaignFor(item); c != nil && campaignCoversExactly(c, item.BranchProductID, now) {
			bp := models.BranchProduct{
				ID:       item.BranchProductID,
				BranchID: order.BranchID,
				Price:    item.CurrentPrice,
			}
			special = EffectivePrice(&bp, c, now)
		}
		entry.CurrentPrice = special

		if !special.Equal(item.OrderPrice) {
			proposal.PriceChanges = append(proposal.PriceChanges, RepeatPriceChange{
				BranchProductID:    item.BranchProductID,
				PreviousOrderPrice: item.OrderPrice,
				CurrentPrice:       special,
			})
		}

		newCost = newCost.Add(special.Mul(decimal.NewFromInt(int64(item.QuantityOrdered))))
		proposal.ProductList = append(proposal.ProductList, entry)
	}

	proposal.NewCost = FormatRand(newCost)
	return proposal
}

// campaignCoversExactly reports whether the campaign is scoped to exactly
// this branch product and currently running. Repeat-order pricing does not
// apply branch-wide campaigns, only product-scoped ones.
func campaignCoversExactly(c *models.SaleCampaign, branchProductID int, now time.Time) bool {
	if c.BranchProductID == nil || *c.BranchProductID != branchProductID {
		return false
	}
	return c.Active && !now.After(c.CampaignEnds)
}
