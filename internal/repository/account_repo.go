package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/spazahub/spaza_api/internal/models"
)

// AccountRepository handles data access for user accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account and populates its ID.
func (r *AccountRepository) Create(a *models.UserAccount) error {
	const q = `
        INSERT INTO accounts (email, password_hash, name, phone, role, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, a.Email, a.PasswordHash, a.Name, a.Phone, a.Role, a.IsActive).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetByEmail returns a single account by email.
func (r *AccountRepository) GetByEmail(email string) (*models.UserAccount, error) {
	const q = `SELECT * FROM accounts WHERE email = $1 LIMIT 1`
	var a models.UserAccount
	if err := r.db.Get(&a, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

// GetByID returns a single account by id.
func (r *AccountRepository) GetByID(id int) (*models.UserAccount, error) {
	const q = `SELECT * FROM accounts WHERE id = $1 LIMIT 1`
	var a models.UserAccount
	if err := r.db.Get(&a, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}
