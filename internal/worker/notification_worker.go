package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/service"
)

// NotificationWorker drains the notification outbox. Business transactions
// only enqueue rows; delivery always happens here, so a slow or down email
// provider can never fail an API request.
type NotificationWorker struct {
	notificationService *service.NotificationService
	interval            time.Duration
}

// NewNotificationWorker constructs a NotificationWorker.
func NewNotificationWorker(notificationService *service.NotificationService, interval time.Duration) *NotificationWorker {
	return &NotificationWorker{
		notificationService: notificationService,
		interval:            interval,
	}
}

// Start begins the periodic delivery loop until context is canceled.
func (w *NotificationWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Msg("Starting notification worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Notification worker stopped")
			return
		}
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	sent, err := w.notificationService.DeliverDue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Notification delivery pass failed")
		return
	}
	if sent > 0 {
		log.Info().Int("count", sent).Msg("Delivered notifications")
	}
}
