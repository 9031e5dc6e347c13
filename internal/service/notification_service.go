package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
)

const (
	notificationBatchSize   = 50
	notificationMaxAttempts = 5
	notificationBaseBackoff = time.Minute
)

// Sender delivers one plain-text message and returns the provider's message
// reference.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// NotificationService drains the notification outbox. State changes enqueue
// rows transactionally; this service does the actual delivery, outside any
// business transaction, with retries.
type NotificationService struct {
	notifRepo *repository.NotificationRepository
	sender    Sender
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifRepo *repository.NotificationRepository, sender Sender) *NotificationService {
	return &NotificationService{notifRepo: notifRepo, sender: sender}
}

// DeliverDue sends every due outbox row once. Failures are rescheduled with
// exponential backoff until notificationMaxAttempts, then marked FAILED.
// Returns the number of notifications delivered.
func (s *NotificationService) DeliverDue(ctx context.Context) (int, error) {
	due, err := s.notifRepo.ListDue(notificationBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		n := &due[i]
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if err := s.deliverOne(ctx, n); err != nil {
			log.Error().Err(err).
				Int("notification_id", n.ID).
				Str("kind", string(n.Kind)).
				Int("attempts", n.Attempts+1).
				Msg("Notification delivery failed")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *NotificationService) deliverOne(ctx context.Context, n *models.Notification) error {
	messageID, err := s.sender.Send(ctx, n.Recipient, n.Subject, n.Body)
	if err != nil {
		backoff := notificationBaseBackoff << n.Attempts
		if markErr := s.notifRepo.MarkFailed(n.ID, n.Attempts, notificationMaxAttempts, err.Error(), backoff); markErr != nil {
			log.Error().Err(markErr).Int("notification_id", n.ID).Msg("Failed to record delivery failure")
		}
		return err
	}

	log.Info().
		Int("notification_id", n.ID).
		Str("kind", string(n.Kind)).
		Str("message_id", messageID).
		Msg("Notification sent")
	return s.notifRepo.MarkSent(n.ID)
}
