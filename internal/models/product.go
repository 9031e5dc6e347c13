package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a global catalog entry. Identity is immutable; many branch
// products reference one product.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	RetailPrice decimal.Decimal `db:"retail_price" json:"recommendedRetailPrice"`
	CreatedAt   time.Time       `db:"created_at" json:"-"`
	UpdatedAt   time.Time       `db:"updated_at" json:"-"`
}

// BranchProduct is the price and availability of a Product at a specific
// Branch. Price is always non-negative. A branch product with in_stock=false
// or is_active=false is excluded from search and from repeat-order proposals.
type BranchProduct struct {
	ID        int             `db:"id" json:"id"`
	BranchID  int             `db:"branch_id" json:"branchId"`
	ProductID int             `db:"product_id" json:"productId"`
	Price     decimal.Decimal `db:"price" json:"price"`
	InStock   bool            `db:"in_stock" json:"inStock"`
	IsActive  bool            `db:"is_active" json:"isActive"`
	CreatedAt time.Time       `db:"created_at" json:"-"`
	UpdatedAt time.Time       `db:"updated_at" json:"-"`

	// Denormalized for listings (populated via join)
	ProductName  string `db:"product_name" json:"productName,omitempty"`
	BranchName   string `db:"branch_name" json:"branchName,omitempty"`
	MerchantName string `db:"merchant_name" json:"merchantName,omitempty"`
}
