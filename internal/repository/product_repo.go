package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
)

// ProductRepository handles data access for the global catalog and
// branch-level product listings.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts a global catalog entry.
func (r *ProductRepository) CreateProduct(p *models.Product) error {
	const q = `
		INSERT INTO products (name, description, retail_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, p.Name, p.Description, p.RetailPrice).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetProductByID returns a single catalog product by id.
func (r *ProductRepository) GetProductByID(id int) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// branchProductSelect joins product/branch/merchant names onto branch product
// rows for listings and lookups.
const branchProductSelect = `
	SELECT bp.*, p.name AS product_name, b.name AS branch_name, m.trading_name AS merchant_name
	FROM branch_products bp
	JOIN products p ON p.id = bp.product_id
	JOIN branches b ON b.id = bp.branch_id
	JOIN merchants m ON m.id = b.merchant_id`

// SearchPaged returns in-stock, active branch products matching the search
// term, with total count for pagination. branchID 0 searches across all
// branches. Page begins at 1.
func (r *ProductRepository) SearchPaged(search string, branchID, page, limit int) ([]models.BranchProduct, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `
		WHERE ($1 = '' OR p.name ILIKE '%' || $1 || '%')
		AND ($2 = 0 OR bp.branch_id = $2)
		AND bp.in_stock = true
		AND bp.is_active = true
		AND b.is_active = true`

	countQuery := `
		SELECT COUNT(1)
		FROM branch_products bp
		JOIN products p ON p.id = bp.product_id
		JOIN branches b ON b.id = bp.branch_id` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, search, branchID); err != nil {
		return nil, 0, err
	}

	listQuery := branchProductSelect + baseWhere + `
		ORDER BY p.name, b.name LIMIT $3 OFFSET $4`
	var items []models.BranchProduct
	if err := r.db.Select(&items, listQuery, search, branchID, limit, offset); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetBranchProductByID returns one branch product with joined names.
func (r *ProductRepository) GetBranchProductByID(id int) (*models.BranchProduct, error) {
	q := branchProductSelect + ` WHERE bp.id = $1 LIMIT 1`
	var bp models.BranchProduct
	if err := r.db.Get(&bp, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &bp, nil
}

// ListByBranch returns all branch products of a branch, including inactive
// and out-of-stock rows (merchant view).
func (r *ProductRepository) ListByBranch(branchID int) ([]models.BranchProduct, error) {
	q := branchProductSelect + ` WHERE bp.branch_id = $1 ORDER BY p.name`
	var items []models.BranchProduct
	if err := r.db.Select(&items, q, branchID); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertBranchProduct inserts or updates the (branch, product) listing.
func (r *ProductRepository) UpsertBranchProduct(bp *models.BranchProduct) error {
	const q = `
		INSERT INTO branch_products (branch_id, product_id, price, in_stock, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (branch_id, product_id) DO UPDATE
		SET price = EXCLUDED.price,
			in_stock = EXCLUDED.in_stock,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, bp.BranchID, bp.ProductID, bp.Price, bp.InStock, bp.IsActive).
		Scan(&bp.ID, &bp.CreatedAt, &bp.UpdatedAt)
}

// SetStock flips the in_stock flag of a branch product.
func (r *ProductRepository) SetStock(id int, inStock bool) error {
	const q = `UPDATE branch_products SET in_stock = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.Exec(q, id, inStock)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetActive flips the is_active flag of a branch product.
func (r *ProductRepository) SetActive(id int, isActive bool) error {
	const q = `UPDATE branch_products SET is_active = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.Exec(q, id, isActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePrice sets a new branch price. Negative prices are rejected by the
// service layer before this is reached and by a DB check constraint after.
func (r *ProductRepository) UpdatePrice(id int, price decimal.Decimal) error {
	const q = `UPDATE branch_products SET price = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.Exec(q, id, price)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
