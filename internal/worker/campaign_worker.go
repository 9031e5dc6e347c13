package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/service"
)

// CampaignWorker promotes staged discount changes once their cooldown window
// has elapsed. Discount changes never take effect on the write path; this
// loop is the only place they become live.
type CampaignWorker struct {
	campaignService *service.CampaignService
	interval        time.Duration
}

// NewCampaignWorker constructs a CampaignWorker.
func NewCampaignWorker(campaignService *service.CampaignService, interval time.Duration) *CampaignWorker {
	return &CampaignWorker{
		campaignService: campaignService,
		interval:        interval,
	}
}

// Start begins the periodic promotion loop until context is canceled.
func (w *CampaignWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Msg("Starting campaign worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Campaign worker stopped")
			return
		}
	}
}

func (w *CampaignWorker) run() {
	promoted, err := w.campaignService.ApplyDelayedChanges()
	if err != nil {
		log.Error().Err(err).Msg("Failed to apply delayed discount changes")
		return
	}
	if promoted > 0 {
		log.Info().Int("count", promoted).Msg("Promoted staged discount changes")
	}
}
