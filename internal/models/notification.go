package models

import "time"

// NotificationKind labels what triggered a notification.
type NotificationKind string

const (
	NotifyOrderCancelledCustomer NotificationKind = "order_cancelled_customer"
	NotifyOrderCancelledMerchant NotificationKind = "order_cancelled_merchant"
	NotifyRepeatOrderSummary     NotificationKind = "repeat_order_summary"
	NotifyOrderConfirmed         NotificationKind = "order_confirmed"
)

// NotificationStatus is the delivery state of an outbox row.
type NotificationStatus string

const (
	NotifyPending NotificationStatus = "PENDING"
	NotifySent    NotificationStatus = "SENT"
	NotifyFailed  NotificationStatus = "FAILED"
)

// Notification is an outbox row. Business operations insert these in the same
// database transaction as the state change they announce; the notification
// worker performs the actual delivery with its own retry schedule.
type Notification struct {
	ID            int                `db:"id" json:"id"`
	Kind          NotificationKind   `db:"kind" json:"kind"`
	Recipient     string             `db:"recipient" json:"recipient"`
	Subject       string             `db:"subject" json:"subject"`
	Body          string             `db:"body" json:"-"`
	Status        NotificationStatus `db:"status" json:"status"`
	Attempts      int                `db:"attempts" json:"attempts"`
	NextAttemptAt *time.Time         `db:"next_attempt_at" json:"nextAttemptAt,omitempty"`
	LastError     *string            `db:"last_error" json:"lastError,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"createdAt"`
	SentAt        *time.Time         `db:"sent_at" json:"sentAt,omitempty"`
}
