package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spazahub/spaza_api/internal/models"
)

// NotificationRepository handles the notification outbox table.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// EnqueueTx inserts an outbox row within the same database transaction as the
// business state change it announces.
func (r *NotificationRepository) EnqueueTx(tx *sqlx.Tx, n *models.Notification) error {
	const q = `
        INSERT INTO notifications (kind, recipient, subject, body, status, attempts, next_attempt_at)
        VALUES ($1, $2, $3, $4, $5, 0, NOW())
        RETURNING id, created_at`
	return tx.QueryRowx(q, n.Kind, n.Recipient, n.Subject, n.Body, models.NotifyPending).
		Scan(&n.ID, &n.CreatedAt)
}

// ListDue returns pending notifications whose next attempt time has passed.
func (r *NotificationRepository) ListDue(limit int) ([]models.Notification, error) {
	const q = `
        SELECT * FROM notifications
        WHERE status = $1 AND next_attempt_at <= NOW()
        ORDER BY next_attempt_at
        LIMIT $2`
	var notifications []models.Notification
	if err := r.db.Select(&notifications, q, models.NotifyPending, limit); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkSent records a successful delivery.
func (r *NotificationRepository) MarkSent(id int) error {
	const q = `
        UPDATE notifications
        SET status = $2, sent_at = NOW(), next_attempt_at = NULL
        WHERE id = $1`
	_, err := r.db.Exec(q, id, models.NotifySent)
	return err
}

// MarkFailed records a failed attempt and schedules the next retry, or marks
// the row FAILED permanently once maxAttempts is exhausted.
func (r *NotificationRepository) MarkFailed(id int, attempts, maxAttempts int, lastError string, backoff time.Duration) error {
	if attempts+1 >= maxAttempts {
		const q = `
            UPDATE notifications
            SET status = $2, attempts = attempts + 1, last_error = $3, next_attempt_at = NULL
            WHERE id = $1`
		_, err := r.db.Exec(q, id, models.NotifyFailed, lastError)
		return err
	}
	const q = `
        UPDATE notifications
        SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3
        WHERE id = $1`
	_, err := r.db.Exec(q, id, lastError, time.Now().Add(backoff))
	return err
}
