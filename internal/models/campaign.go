package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountCooldown is how long a staged discount change waits before it can
// be promoted into the active percentage.
const DiscountCooldown = 24 * time.Hour

// SaleCampaign is a time-bounded percentage discount scoped to a branch, or
// to one specific branch product when BranchProductID is set.
//
// Discount changes are deferred: updating the percentage stages the new value
// into DelayedPercentageOff and the old percentage stays active until the
// cooldown window since LastUpdated has elapsed.
type SaleCampaign struct {
	ID                   int              `db:"id" json:"id"`
	BranchID             int              `db:"branch_id" json:"branchId"`
	BranchProductID      *int             `db:"branch_product_id" json:"branchProductId,omitempty"`
	Name                 string           `db:"name" json:"name"`
	PercentageOff        decimal.Decimal  `db:"percentage_off" json:"percentageOff"`
	DelayedPercentageOff *decimal.Decimal `db:"delayed_percentage_off" json:"delayedPercentageOff,omitempty"`
	Active               bool             `db:"active" json:"active"`
	CampaignEnds         time.Time        `db:"campaign_ends" json:"campaignEnds"`
	LastUpdated          time.Time        `db:"last_updated" json:"lastUpdated"`
	CreatedAt            time.Time        `db:"created_at" json:"-"`
}

// AppliesTo reports whether the campaign covers the given branch product at
// the given instant. A campaign applies when it is branch-wide (no specific
// branch product) or scoped to exactly this branch product, is active, and
// has not passed its end date.
func (c *SaleCampaign) AppliesTo(bp *BranchProduct, now time.Time) bool {
	if c == nil || bp == nil {
		return false
	}
	if !c.Active || now.After(c.CampaignEnds) {
		return false
	}
	if c.BranchID != bp.BranchID {
		return false
	}
	if c.BranchProductID != nil && *c.BranchProductID != bp.ID {
		return false
	}
	return true
}
