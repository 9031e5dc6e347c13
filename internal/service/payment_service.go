package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// PaymentService settles transactions from gateway webhooks and drives the
// resulting order transition.
type PaymentService struct {
	db          *sqlx.DB
	trxRepo     *repository.TransactionRepository
	orderRepo   *repository.OrderRepository
	notifRepo   *repository.NotificationRepository
	accountRepo *repository.AccountRepository
	gateways    map[models.PaymentGateway]GatewayClient
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *sqlx.DB, trxRepo *repository.TransactionRepository, orderRepo *repository.OrderRepository, notifRepo *repository.NotificationRepository, accountRepo *repository.AccountRepository, gateways map[models.PaymentGateway]GatewayClient) *PaymentService {
	return &PaymentService{
		db:          db,
		trxRepo:     trxRepo,
		orderRepo:   orderRepo,
		notifRepo:   notifRepo,
		accountRepo: accountRepo,
		gateways:    gateways,
	}
}

// SettleByReference marks the transaction COMPLETE or FAILED and, on
// success, moves the order out of PAYMENT_PENDING into the state matching
// its delivery method. Webhooks redeliver, so an already settled transaction
// is a no-op, not an error. The order transition, the settlement, and the
// confirmation notification commit in one database transaction.
func (s *PaymentService) SettleByReference(reference, gatewayRef string, succeeded bool) error {
	trx, err := s.trxRepo.GetByReference(reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrTransactionNotFound
		}
		return err
	}
	if trx.Status != models.TrxPending {
		return nil
	}

	order, err := s.orderRepo.GetByTransactionID(trx.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrOrderNotFound
		}
		return err
	}

	status := models.TrxComplete
	if !succeeded {
		status = models.TrxFailed
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	settled, err := s.trxRepo.Settle(tx, trx.ID, status, gatewayRef)
	if err != nil {
		return err
	}
	if !settled {
		// A concurrent webhook won the race.
		return nil
	}

	if succeeded {
		target := models.OrderPendingDelivery
		if order.DeliveryMethod == models.DeliveryMethodPickup {
			target = models.OrderPendingPickup
		}
		ok, err := s.orderRepo.TransitionTx(tx, order.ID, order.Version, []models.OrderStatus{models.OrderPaymentPending}, target)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrVersionConflict
		}

		if customer, err := s.accountRepo.GetByID(order.CustomerID); err == nil {
			notification := &models.Notification{
				Kind:      models.NotifyOrderConfirmed,
				Recipient: customer.Email,
				Subject:   fmt.Sprintf("Order #%d confirmed", order.ID),
				Body: fmt.Sprintf(
					"Hi %s,\n\nPayment for order #%d (%s) was received. The branch will prepare your order.\n",
					customer.Name, order.ID, FormatRand(order.Total)),
			}
			if err := s.notifRepo.EnqueueTx(tx, notification); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Str("reference", reference).
		Str("status", string(status)).
		Int("order_id", order.ID).
		Msg("Transaction settled")
	return nil
}

// RecheckStale re-queries the gateway for transactions that have sat in
// PENDING past the stale threshold and settles any that finished without a
// webhook reaching us.
func (s *PaymentService) RecheckStale(ctx context.Context, olderThan time.Duration, limit int) error {
	stale, err := s.trxRepo.ListStalePending(olderThan, limit)
	if err != nil {
		return err
	}

	for _, trx := range stale {
		gatewayClient, ok := s.gateways[trx.Gateway]
		if !ok {
			continue
		}
		succeeded, gatewayRef, err := gatewayClient.QueryPayment(ctx, trx.Reference)
		if err != nil {
			log.Warn().Err(err).Str("reference", trx.Reference).Msg("Gateway status query failed")
			continue
		}
		if gatewayRef == "" {
			// Still in flight on the gateway side.
			continue
		}
		if err := s.SettleByReference(trx.Reference, gatewayRef, succeeded); err != nil {
			log.Error().Err(err).Str("reference", trx.Reference).Msg("Failed to settle stale transaction")
		}
	}
	return nil
}
