package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

func TestCanCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  models.OrderStatus
		wantErr error
	}{
		{"payment pending", models.OrderPaymentPending, nil},
		{"pending delivery", models.OrderPendingDelivery, nil},
		{"pending pickup", models.OrderPendingPickup, nil},
		{"delivered is terminal", models.OrderDelivered, utils.ErrOrderNotCancellable},
		{"cancelled is terminal", models.OrderCancelled, utils.ErrOrderNotCancellable},
		{"unknown status", models.OrderStatus("REFUNDED"), utils.ErrOrderNotCancellable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanCancel(tt.status)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// A cancelled order stays cancelled: once the transition to CANCELLED has
// happened, a second cancellation attempt must be rejected before any write.
func TestCanCancelAfterCancellation(t *testing.T) {
	order := &models.Order{ID: 7, Status: models.OrderPendingDelivery, Version: 1}
	require.NoError(t, CanCancel(order.Status))

	order.Status = models.OrderCancelled
	order.Version++
	assert.ErrorIs(t, CanCancel(order.Status), utils.ErrOrderNotCancellable)
}
