package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPaymentPending  OrderStatus = "PAYMENT_PENDING"
	OrderPendingDelivery OrderStatus = "PENDING_DELIVERY"
	OrderPendingPickup   OrderStatus = "PENDING_PICKUP"
	OrderDelivered       OrderStatus = "DELIVERED"
	OrderCancelled       OrderStatus = "CANCELLED"
)

// CancellableStatuses are the states from which a customer may cancel.
// DELIVERED and CANCELLED are terminal.
var CancellableStatuses = []OrderStatus{
	OrderPaymentPending,
	OrderPendingDelivery,
	OrderPendingPickup,
}

// DeliveryMethod selects the post-payment state of an order.
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
)

// Order ties a payment transaction to a set of ordered products at one
// branch. Version guards concurrent state transitions: every status write is
// conditional on the version read, and bumps it.
type Order struct {
	ID             int             `db:"id" json:"id"`
	CustomerID     int             `db:"customer_id" json:"-"`
	BranchID       int             `db:"branch_id" json:"branchId"`
	TransactionID  int             `db:"transaction_id" json:"-"`
	Status         OrderStatus     `db:"status" json:"status"`
	DeliveryMethod DeliveryMethod  `db:"delivery_method" json:"deliveryMethod"`
	Acknowledged   bool            `db:"acknowledged" json:"acknowledged"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Version        int             `db:"version" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"-"`

	// Populated via join
	BranchName string `db:"branch_name" json:"branchName,omitempty"`
}

// OrderedProduct is a line item. OrderPrice is the branch price snapshotted
// at order creation and never mutated afterward; SaleCampaignID records which
// campaign was attached at the time, for later display only.
type OrderedProduct struct {
	ID              int             `db:"id" json:"id"`
	OrderID         int             `db:"order_id" json:"-"`
	BranchProductID int             `db:"branch_product_id" json:"branchProductId"`
	SaleCampaignID  *int            `db:"sale_campaign_id" json:"saleCampaignId,omitempty"`
	QuantityOrdered int             `db:"quantity_ordered" json:"quantityOrdered"`
	OrderPrice      decimal.Decimal `db:"order_price" json:"orderPrice"`

	// Populated via join for diffing and display
	ProductID    int             `db:"product_id" json:"productId"`
	ProductName  string          `db:"product_name" json:"productName,omitempty"`
	CurrentPrice decimal.Decimal `db:"current_price" json:"-"`
	InStock      bool            `db:"in_stock" json:"-"`
	IsActive     bool            `db:"is_active" json:"-"`
}

// CancelReason classifies why an order was cancelled.
type CancelReason string

const (
	CancelCustomerRequest CancelReason = "CUSTOMER_REQUEST"
	CancelOutOfStock      CancelReason = "OUT_OF_STOCK"
	CancelPaymentIssue    CancelReason = "PAYMENT_ISSUE"
	CancelOther           CancelReason = "OTHER"
)

// CancelledOrder is the audit record of a cancellation. Created once per
// order (unique order_id), never mutated.
type CancelledOrder struct {
	ID              int              `db:"id" json:"id"`
	OrderID         int              `db:"order_id" json:"orderId"`
	CancelledBy     int              `db:"cancelled_by" json:"cancelledBy"`
	Reason          CancelReason     `db:"reason" json:"reason"`
	Notes           *string          `db:"notes" json:"notes,omitempty"`
	RefundInitiated bool             `db:"refund_initiated" json:"refundInitiated"`
	RefundAmount    *decimal.Decimal `db:"refund_amount" json:"refundAmount,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
}
