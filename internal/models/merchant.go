package models

import "time"

// Merchant is the business record behind a merchant account. One account owns
// one merchant, which in turn owns any number of branches.
type Merchant struct {
	ID          int       `db:"id" json:"id"`
	AccountID   int       `db:"account_id" json:"-"`
	TradingName string    `db:"trading_name" json:"tradingName"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Branch is a physical store location. Catalog entries, campaigns and orders
// all hang off a branch.
type Branch struct {
	ID         int       `db:"id" json:"id"`
	MerchantID int       `db:"merchant_id" json:"merchantId"`
	Name       string    `db:"name" json:"name"`
	Address    string    `db:"address" json:"address"`
	City       string    `db:"city" json:"city"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`

	// Populated via join for ownership checks
	MerchantAccountID int `db:"merchant_account_id" json:"-"`
}
