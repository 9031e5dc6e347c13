package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/spazahub/spaza_api/internal/models"
)

// OrderRepository handles data access for orders, their line items, and
// cancellation audit rows.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateTx inserts an order within an existing database transaction.
func (r *OrderRepository) CreateTx(tx *sqlx.Tx, o *models.Order) error {
	const q = `
        INSERT INTO orders
            (customer_id, branch_id, transaction_id, status, delivery_method, acknowledged, total, version)
        VALUES ($1, $2, $3, $4, $5, false, $6, 1)
        RETURNING id, version, created_at, updated_at`
	return tx.QueryRowx(q, o.CustomerID, o.BranchID, o.TransactionID, o.Status, o.DeliveryMethod, o.Total).
		Scan(&o.ID, &o.Version, &o.CreatedAt, &o.UpdatedAt)
}

// AddItemTx inserts an ordered product row within an existing transaction.
func (r *OrderRepository) AddItemTx(tx *sqlx.Tx, item *models.OrderedProduct) error {
	const q = `
        INSERT INTO ordered_products
            (order_id, branch_product_id, sale_campaign_id, quantity_ordered, order_price)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return tx.QueryRowx(q, item.OrderID, item.BranchProductID, item.SaleCampaignID, item.QuantityOrdered, item.OrderPrice).
		Scan(&item.ID)
}

// GetByID returns an order with its branch name joined in.
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	const q = `
        SELECT o.*, b.name AS branch_name
        FROM orders o
        JOIN branches b ON b.id = o.branch_id
        WHERE o.id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetByTransactionID returns the order created for a payment transaction.
func (r *OrderRepository) GetByTransactionID(transactionID int) (*models.Order, error) {
	const q = `
        SELECT o.*, b.name AS branch_name
        FROM orders o
        JOIN branches b ON b.id = o.branch_id
        WHERE o.transaction_id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, transactionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &o, nil
}

// GetItems returns the ordered products of an order with the current branch
// product state joined in, which is what reconciliation and repeat-order diff
// against.
func (r *OrderRepository) GetItems(orderID int) ([]models.OrderedProduct, error) {
	const q = `
        SELECT op.*, bp.product_id, p.name AS product_name,
               bp.price AS current_price, bp.in_stock, bp.is_active
        FROM ordered_products op
        JOIN branch_products bp ON bp.id = op.branch_product_id
        JOIN products p ON p.id = bp.product_id
        WHERE op.order_id = $1
        ORDER BY op.id`
	var items []models.OrderedProduct
	if err := r.db.Select(&items, q, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByCustomer returns a customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(customerID, page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM orders WHERE customer_id = $1`, customerID); err != nil {
		return nil, 0, err
	}
	const q = `
        SELECT o.*, b.name AS branch_name
        FROM orders o
        JOIN branches b ON b.id = o.branch_id
        WHERE o.customer_id = $1
        ORDER BY o.created_at DESC
        LIMIT $2 OFFSET $3`
	var orders []models.Order
	if err := r.db.Select(&orders, q, customerID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByBranch returns a branch's orders, unacknowledged first.
func (r *OrderRepository) ListByBranch(branchID, page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM orders WHERE branch_id = $1`, branchID); err != nil {
		return nil, 0, err
	}
	const q = `
        SELECT o.*, b.name AS branch_name
        FROM orders o
        JOIN branches b ON b.id = o.branch_id
        WHERE o.branch_id = $1
        ORDER BY o.acknowledged, o.created_at DESC
        LIMIT $2 OFFSET $3`
	var orders []models.Order
	if err := r.db.Select(&orders, q, branchID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TransitionTx performs an optimistic, guarded status transition: the write
// succeeds only when the stored version matches what the caller read and the
// current status is one of the allowed source states. Returns false when the
// guard fails (concurrent writer or invalid state).
func (r *OrderRepository) TransitionTx(tx *sqlx.Tx, orderID, version int, from []models.OrderStatus, to models.OrderStatus) (bool, error) {
	placeholders := make([]string, len(from))
	args := []interface{}{orderID, version, to}
	for i, s := range from {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, s)
	}
	q := fmt.Sprintf(`
        UPDATE orders
        SET status = $3, version = version + 1, updated_at = NOW()
        WHERE id = $1 AND version = $2 AND status IN (%s)`,
		strings.Join(placeholders, ", "))
	res, err := tx.Exec(q, args...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetAcknowledgedTx flips the acknowledged flag within a transaction.
func (r *OrderRepository) SetAcknowledgedTx(tx *sqlx.Tx, orderID int, acknowledged bool) error {
	const q = `UPDATE orders SET acknowledged = $2, updated_at = NOW() WHERE id = $1`
	res, err := tx.Exec(q, orderID, acknowledged)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateCancellationTx inserts the cancellation audit row. The unique
// constraint on order_id guarantees at most one audit row per order even if
// two cancellations race past the status guard.
func (r *OrderRepository) CreateCancellationTx(tx *sqlx.Tx, co *models.CancelledOrder) error {
	const q = `
        INSERT INTO cancelled_orders
            (order_id, cancelled_by, reason, notes, refund_initiated, refund_amount)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return tx.QueryRowx(q, co.OrderID, co.CancelledBy, co.Reason, co.Notes, co.RefundInitiated, co.RefundAmount).
		Scan(&co.ID, &co.CreatedAt)
}

// GetCancellation returns the audit row of a cancelled order, if any.
func (r *OrderRepository) GetCancellation(orderID int) (*models.CancelledOrder, error) {
	const q = `SELECT * FROM cancelled_orders WHERE order_id = $1 LIMIT 1`
	var co models.CancelledOrder
	if err := r.db.Get(&co, q, orderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &co, nil
}
