package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spazahub/spaza_api/internal/models"
)

// TransactionRepository handles data access for payment transactions.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTx inserts a transaction within an existing database transaction.
func (r *TransactionRepository) CreateTx(tx *sqlx.Tx, t *models.Transaction) error {
	const q = `
        INSERT INTO transactions (reference, gateway, customer_id, branch_id, amount, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return tx.QueryRowx(q, t.Reference, t.Gateway, t.CustomerID, t.BranchID, t.Amount, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByReference returns a transaction by our reference.
func (r *TransactionRepository) GetByReference(reference string) (*models.Transaction, error) {
	const q = `SELECT * FROM transactions WHERE reference = $1 LIMIT 1`
	var t models.Transaction
	if err := r.db.Get(&t, q, reference); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// Settle marks a PENDING transaction COMPLETE or FAILED and records the
// gateway's own reference. Settling is one-way: an already settled
// transaction is not updated and reports zero rows.
func (r *TransactionRepository) Settle(tx *sqlx.Tx, id int, status models.TransactionStatus, gatewayRef string) (bool, error) {
	const q = `
        UPDATE transactions
        SET status = $2, gateway_ref = $3, completed_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND status = $4`
	res, err := tx.Exec(q, id, status, gatewayRef, models.TrxPending)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListStalePending returns PENDING transactions older than the given age, for
// the status check worker to re-query against the gateway.
func (r *TransactionRepository) ListStalePending(olderThan time.Duration, limit int) ([]models.Transaction, error) {
	const q = `
        SELECT * FROM transactions
        WHERE status = $1 AND created_at <= $2
        ORDER BY created_at
        LIMIT $3`
	var trxs []models.Transaction
	if err := r.db.Select(&trxs, q, models.TrxPending, time.Now().Add(-olderThan), limit); err != nil {
		return nil, err
	}
	return trxs, nil
}
