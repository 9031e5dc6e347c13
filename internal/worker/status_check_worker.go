package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/service"
)

const statusCheckBatchSize = 20

// StatusCheckWorker re-queries the payment gateways for transactions stuck in
// PENDING, covering webhooks that were lost or delayed. Settlement is
// idempotent, so racing an in-flight webhook is harmless.
type StatusCheckWorker struct {
	paymentService *service.PaymentService
	interval       time.Duration
	staleAfter     time.Duration
}

// NewStatusCheckWorker constructs a StatusCheckWorker.
func NewStatusCheckWorker(paymentService *service.PaymentService, interval, staleAfter time.Duration) *StatusCheckWorker {
	return &StatusCheckWorker{
		paymentService: paymentService,
		interval:       interval,
		staleAfter:     staleAfter,
	}
}

// Start begins the periodic status check loop until context is canceled.
func (w *StatusCheckWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("stale_after", w.staleAfter).
		Msg("Starting status check worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Status check worker stopped")
			return
		}
	}
}

func (w *StatusCheckWorker) run(ctx context.Context) {
	if err := w.paymentService.RecheckStale(ctx, w.staleAfter, statusCheckBatchSize); err != nil {
		log.Error().Err(err).Msg("Stale transaction recheck failed")
	}
}
