package models

import "time"

// Role separates buyers from sellers. A merchant account owns a merchant
// business record and its branches; customers place orders.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleMerchant Role = "merchant"
)

// UserAccount is a login identity for either role.
type UserAccount struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}
