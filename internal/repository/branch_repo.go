package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/spazahub/spaza_api/internal/models"
)

// BranchRepository handles data access for merchants and their branches.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// CreateMerchant inserts a merchant record for an account.
func (r *BranchRepository) CreateMerchant(m *models.Merchant) error {
	const q = `
        INSERT INTO merchants (account_id, trading_name, email, phone, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, m.AccountID, m.TradingName, m.Email, m.Phone, m.IsActive).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetMerchantByAccountID returns the merchant owned by an account.
func (r *BranchRepository) GetMerchantByAccountID(accountID int) (*models.Merchant, error) {
	const q = `SELECT * FROM merchants WHERE account_id = $1 LIMIT 1`
	var m models.Merchant
	if err := r.db.Get(&m, q, accountID); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateBranch inserts a branch for a merchant.
func (r *BranchRepository) CreateBranch(b *models.Branch) error {
	const q = `
        INSERT INTO branches (merchant_id, name, address, city, phone, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, b.MerchantID, b.Name, b.Address, b.City, b.Phone, b.IsActive).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetBranchByID returns a branch with its owning merchant's account id joined
// in, so callers can run ownership checks without a second query.
func (r *BranchRepository) GetBranchByID(id int) (*models.Branch, error) {
	const q = `
        SELECT b.*, m.account_id AS merchant_account_id
        FROM branches b
        JOIN merchants m ON m.id = b.merchant_id
        WHERE b.id = $1 LIMIT 1`
	var b models.Branch
	if err := r.db.Get(&b, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &b, nil
}

// ListBranchesByMerchant returns all branches of a merchant.
func (r *BranchRepository) ListBranchesByMerchant(merchantID int) ([]models.Branch, error) {
	const q = `SELECT * FROM branches WHERE merchant_id = $1 ORDER BY name`
	var branches []models.Branch
	if err := r.db.Select(&branches, q, merchantID); err != nil {
		return nil, err
	}
	return branches, nil
}
