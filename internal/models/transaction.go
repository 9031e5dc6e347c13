package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentGateway identifies which external gateway handles a transaction.
type PaymentGateway string

const (
	GatewayPaystack PaymentGateway = "paystack"
	GatewayPayGate  PaymentGateway = "paygate"
)

// TransactionStatus is the payment state of a checkout.
type TransactionStatus string

const (
	TrxPending  TransactionStatus = "PENDING"
	TrxComplete TransactionStatus = "COMPLETE"
	TrxFailed   TransactionStatus = "FAILED"
)

// Transaction captures the payment side of a checkout. The gateway is treated
// as a black box: we hold our reference, its reference, and the amount; the
// gateway confirms completion through a webhook.
type Transaction struct {
	ID          int               `db:"id" json:"-"`
	Reference   string            `db:"reference" json:"reference"`
	Gateway     PaymentGateway    `db:"gateway" json:"gateway"`
	CustomerID  int               `db:"customer_id" json:"-"`
	BranchID    int               `db:"branch_id" json:"-"`
	Amount      decimal.Decimal   `db:"amount" json:"amount"`
	Status      TransactionStatus `db:"status" json:"status"`
	GatewayRef  *string           `db:"gateway_ref" json:"gatewayRef,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time        `db:"completed_at" json:"completedAt,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"-"`
}
