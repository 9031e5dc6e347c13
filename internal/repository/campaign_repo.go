package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
)

// CampaignRepository handles data access for sale campaigns.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a campaign and populates its ID.
func (r *CampaignRepository) Create(c *models.SaleCampaign) error {
	const q = `
        INSERT INTO sale_campaigns
            (branch_id, branch_product_id, name, percentage_off, active, campaign_ends, last_updated)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, last_updated, created_at`
	return r.db.QueryRowx(q, c.BranchID, c.BranchProductID, c.Name, c.PercentageOff, c.Active, c.CampaignEnds).
		Scan(&c.ID, &c.LastUpdated, &c.CreatedAt)
}

// GetByID returns a single campaign by id.
func (r *CampaignRepository) GetByID(id int) (*models.SaleCampaign, error) {
	const q = `SELECT * FROM sale_campaigns WHERE id = $1 LIMIT 1`
	var c models.SaleCampaign
	if err := r.db.Get(&c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// GetActiveForBranchProduct returns the campaign currently applicable to a
// branch product: scoped to exactly that product, or branch-wide. A
// product-scoped campaign wins over a branch-wide one. Returns nil without
// error when no campaign applies.
func (r *CampaignRepository) GetActiveForBranchProduct(branchID, branchProductID int, now time.Time) (*models.SaleCampaign, error) {
	const q = `
        SELECT * FROM sale_campaigns
        WHERE branch_id = $1
        AND (branch_product_id = $2 OR branch_product_id IS NULL)
        AND active = true
        AND campaign_ends >= $3
        ORDER BY branch_product_id NULLS LAST, last_updated DESC
        LIMIT 1`
	var c models.SaleCampaign
	if err := r.db.Get(&c, q, branchID, branchProductID, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListActiveByBranch returns all currently active campaigns of a branch.
func (r *CampaignRepository) ListActiveByBranch(branchID int, now time.Time) ([]models.SaleCampaign, error) {
	const q = `
        SELECT * FROM sale_campaigns
        WHERE branch_id = $1 AND active = true AND campaign_ends >= $2
        ORDER BY last_updated DESC`
	var campaigns []models.SaleCampaign
	if err := r.db.Select(&campaigns, q, branchID, now); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// StageDiscount stores a pending percentage change and restarts the cooldown
// clock. The active percentage is left untouched.
func (r *CampaignRepository) StageDiscount(id int, pct decimal.Decimal) error {
	const q = `
        UPDATE sale_campaigns
        SET delayed_percentage_off = $2, last_updated = NOW()
        WHERE id = $1`
	res, err := r.db.Exec(q, id, pct)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PromoteDelayed moves the staged percentage into the active percentage. The
// WHERE clause re-checks the cooldown so a racing worker cannot promote
// early; zero rows affected means nothing was due.
func (r *CampaignRepository) PromoteDelayed(id int, cutoff time.Time) (bool, error) {
	const q = `
        UPDATE sale_campaigns
        SET percentage_off = delayed_percentage_off,
            delayed_percentage_off = NULL,
            last_updated = NOW()
        WHERE id = $1
        AND delayed_percentage_off IS NOT NULL
        AND last_updated <= $2`
	res, err := r.db.Exec(q, id, cutoff)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListDueForPromotion returns campaigns whose staged discount has passed the
// cooldown window as of the given cutoff.
func (r *CampaignRepository) ListDueForPromotion(cutoff time.Time) ([]models.SaleCampaign, error) {
	const q = `
        SELECT * FROM sale_campaigns
        WHERE delayed_percentage_off IS NOT NULL
        AND last_updated <= $1`
	var campaigns []models.SaleCampaign
	if err := r.db.Select(&campaigns, q, cutoff); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// End deactivates a campaign.
func (r *CampaignRepository) End(id int) error {
	const q = `UPDATE sale_campaigns SET active = false, last_updated = NOW() WHERE id = $1`
	res, err := r.db.Exec(q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
