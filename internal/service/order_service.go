package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// OrderService handles the post-payment order lifecycle: reconciliation,
// repeat proposals, cancellation, acknowledgement, and fulfilment.
type OrderService struct {
	db           *sqlx.DB
	orderRepo    *repository.OrderRepository
	campaignRepo *repository.CampaignRepository
	branchRepo   *repository.BranchRepository
	accountRepo  *repository.AccountRepository
	notifRepo    *repository.NotificationRepository
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *sqlx.DB, orderRepo *repository.OrderRepository, campaignRepo *repository.CampaignRepository, branchRepo *repository.BranchRepository, accountRepo *repository.AccountRepository, notifRepo *repository.NotificationRepository) *OrderService {
	return &OrderService{
		db:           db,
		orderRepo:    orderRepo,
		campaignRepo: campaignRepo,
		branchRepo:   branchRepo,
		accountRepo:  accountRepo,
		notifRepo:    notifRepo,
	}
}

// Get returns an order with its line items after an ownership check.
func (s *OrderService) Get(actor Actor, orderID int) (*models.Order, []models.OrderedProduct, *models.CancelledOrder, error) {
	order, branch, err := s.load(orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	resource := Resource{CustomerAccountID: order.CustomerID, MerchantAccountID: branch.MerchantAccountID}
	if err := Authorize(actor, resource, ActionViewOrder); err != nil {
		return nil, nil, nil, err
	}
	items, err := s.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	var cancellation *models.CancelledOrder
	if order.Status == models.OrderCancelled {
		cancellation, err = s.orderRepo.GetCancellation(orderID)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, nil, err
		}
	}
	return order, items, cancellation, nil
}

// ListForCustomer returns the actor's own orders.
func (s *OrderService) ListForCustomer(actor Actor, page, limit int) ([]models.Order, int, error) {
	return s.orderRepo.ListByCustomer(actor.AccountID, page, limit)
}

// ListForBranch returns a branch's orders after an ownership check.
func (s *OrderService) ListForBranch(actor Actor, branchID, page, limit int) ([]models.Order, int, error) {
	branch, err := s.branchRepo.GetBranchByID(branchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, utils.ErrBranchNotFound
		}
		return nil, 0, err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionViewOrder); err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListByBranch(branchID, page, limit)
}

// CheckChanges diffs an order's snapshotted prices against the current
// catalog and campaign state. Read-only; the order is never mutated.
func (s *OrderService) CheckChanges(actor Actor, orderID int) (*OrderChanges, error) {
	order, branch, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	resource := Resource{CustomerAccountID: order.CustomerID, MerchantAccountID: branch.MerchantAccountID}
	if err := Authorize(actor, resource, ActionReconcileOrder); err != nil {
		return nil, err
	}

	items, err := s.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	campaignFor, err := s.campaignResolver(order.BranchID, now)
	if err != nil {
		return nil, err
	}
	return BuildOrderChanges(order, items, campaignFor, now), nil
}

// RepeatOrder prices a re-order of an existing order at today's prices and
// emails the customer the proposal. Advisory only: no new order is created.
func (s *OrderService) RepeatOrder(actor Actor, orderID int) (*RepeatProposal, error) {
	order, branch, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	resource := Resource{CustomerAccountID: order.CustomerID, MerchantAccountID: branch.MerchantAccountID}
	if err := Authorize(actor, resource, ActionRepeatOrder); err != nil {
		return nil, err
	}

	items, err := s.orderRepo.GetItems(orderID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	campaignFor, err := s.campaignResolver(order.BranchID, now)
	if err != nil {
		return nil, err
	}
	proposal := BuildRepeatProposal(order, items, campaignFor, now)

	customer, err := s.accountRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.enqueueRepeatSummary(customer, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

// CancelRequest carries the optional fields of a cancellation call.
type CancelRequest struct {
	Reason       string           `json:"reason"`
	Notes        string           `json:"notes"`
	RefundAmount *decimal.Decimal `json:"refundAmount"`
}

// CanCancel reports whether an order in the given status may still be
// cancelled. DELIVERED and CANCELLED are terminal.
func CanCancel(status models.OrderStatus) error {
	for _, s := range models.CancellableStatuses {
		if status == s {
			return nil
		}
	}
	return utils.ErrOrderNotCancellable
}

// Cancel transitions an order to CANCELLED. Only PAYMENT_PENDING,
// PENDING_PICKUP and PENDING_DELIVERY orders can be cancelled; DELIVERED and
// CANCELLED are terminal. The state transition, the audit row, and the
// customer/merchant notifications commit in a single database transaction;
// actual delivery happens later in the notification worker.
func (s *OrderService) Cancel(actor Actor, orderID int, req *CancelRequest) error {
	if orderID <= 0 {
		return utils.ErrInvalidOrderID
	}
	order, branch, err := s.load(orderID)
	if err != nil {
		return err
	}
	resource := Resource{CustomerAccountID: order.CustomerID, MerchantAccountID: branch.MerchantAccountID}
	if err := Authorize(actor, resource, ActionCancelOrder); err != nil {
		return err
	}
	if err := CanCancel(order.Status); err != nil {
		return err
	}

	reason := models.CancelReason(req.Reason)
	switch reason {
	case models.CancelCustomerRequest, models.CancelOutOfStock, models.CancelPaymentIssue, models.CancelOther:
	default:
		reason = models.CancelCustomerRequest
	}

	customer, err := s.accountRepo.GetByID(order.CustomerID)
	if err != nil {
		return err
	}
	merchant, err := s.accountRepo.GetByID(branch.MerchantAccountID)
	if err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := s.orderRepo.TransitionTx(tx, order.ID, order.Version, models.CancellableStatuses, models.OrderCancelled)
	if err != nil {
		return err
	}
	if !ok {
		// A concurrent cancellation or fulfilment got there first.
		return utils.ErrOrderNotCancellable
	}
	if err := s.orderRepo.SetAcknowledgedTx(tx, order.ID, false); err != nil {
		return err
	}

	refundAmount := order.Total
	if req.RefundAmount != nil {
		refundAmount = *req.RefundAmount
	}
	audit := &models.CancelledOrder{
		OrderID:         order.ID,
		CancelledBy:     actor.AccountID,
		Reason:          reason,
		RefundInitiated: order.Status != models.OrderPaymentPending,
		RefundAmount:    &refundAmount,
	}
	if req.Notes != "" {
		audit.Notes = &req.Notes
	}
	if err := s.orderRepo.CreateCancellationTx(tx, audit); err != nil {
		return err
	}

	customerNote := &models.Notification{
		Kind:      models.NotifyOrderCancelledCustomer,
		Recipient: customer.Email,
		Subject:   fmt.Sprintf("Order #%d cancelled", order.ID),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour order #%d from %s has been cancelled.\nReason: %s\nRefund: %s\n",
			customer.Name, order.ID, order.BranchName, reason, FormatRand(refundAmount)),
	}
	merchantNote := &models.Notification{
		Kind:      models.NotifyOrderCancelledMerchant,
		Recipient: merchant.Email,
		Subject:   fmt.Sprintf("Order #%d cancelled by customer", order.ID),
		Body: fmt.Sprintf(
			"Order #%d at %s was cancelled.\nReason: %s\n",
			order.ID, order.BranchName, reason),
	}
	if err := s.notifRepo.EnqueueTx(tx, customerNote); err != nil {
		return err
	}
	if err := s.notifRepo.EnqueueTx(tx, merchantNote); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Int("order_id", order.ID).
		Str("reason", string(reason)).
		Int("cancelled_by", actor.AccountID).
		Msg("Order cancelled")
	return nil
}

// Acknowledge marks an order as seen by the merchant.
func (s *OrderService) Acknowledge(actor Actor, orderID int) error {
	order, branch, err := s.load(orderID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionAcknowledgeOrder); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.orderRepo.SetAcknowledgedTx(tx, order.ID, true); err != nil {
		return err
	}
	return tx.Commit()
}

// Fulfil transitions a paid order to DELIVERED.
func (s *OrderService) Fulfil(actor Actor, orderID int) error {
	order, branch, err := s.load(orderID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, Resource{MerchantAccountID: branch.MerchantAccountID}, ActionFulfilOrder); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	from := []models.OrderStatus{models.OrderPendingDelivery, models.OrderPendingPickup}
	ok, err := s.orderRepo.TransitionTx(tx, order.ID, order.Version, from, models.OrderDelivered)
	if err != nil {
		return err
	}
	if !ok {
		return utils.ErrOrderNotFulfillable
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().Int("order_id", order.ID).Msg("Order fulfilled")
	return nil
}

// load fetches an order and its branch, mapping missing rows to domain
// errors.
func (s *OrderService) load(orderID int) (*models.Order, *models.Branch, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, utils.ErrOrderNotFound
		}
		return nil, nil, err
	}
	branch, err := s.branchRepo.GetBranchByID(order.BranchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, utils.ErrBranchNotFound
		}
		return nil, nil, err
	}
	return order, branch, nil
}

// campaignResolver loads a branch's running campaigns once and returns a
// lookup that prefers a product-scoped campaign over a branch-wide one.
func (s *OrderService) campaignResolver(branchID int, now time.Time) (func(models.OrderedProduct) *models.SaleCampaign, error) {
	campaigns, err := s.campaignRepo.ListActiveByBranch(branchID, now)
	if err != nil {
		return nil, err
	}
	return func(item models.OrderedProduct) *models.SaleCampaign {
		var branchWide *models.SaleCampaign
		for i := range campaigns {
			c := &campaigns[i]
			if c.BranchProductID != nil {
				if *c.BranchProductID == item.BranchProductID {
					return c
				}
				continue
			}
			if branchWide == nil {
				branchWide = c
			}
		}
		return branchWide
	}, nil
}

// enqueueRepeatSummary writes the repeat-order email to the outbox.
func (s *OrderService) enqueueRepeatSummary(customer *models.UserAccount, proposal *RepeatProposal) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nHere is your repeat order for %s:\n\n", customer.Name, proposal.Branch.Name)
	for _, item := range proposal.ProductList {
		fmt.Fprintf(&b, "  %s x%d @ %s\n", item.Name, item.QuantityOrdered, FormatRand(item.CurrentPrice))
	}
	for _, item := range proposal.OutOfStock {
		fmt.Fprintf(&b, "  %s (currently out of stock)\n", item.Name)
	}
	fmt.Fprintf(&b, "\nNew total: %s\n", proposal.NewCost)

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	notification := &models.Notification{
		Kind:      models.NotifyRepeatOrderSummary,
		Recipient: customer.Email,
		Subject:   fmt.Sprintf("Your repeat order from %s", proposal.Branch.Name),
		Body:      b.String(),
	}
	if err := s.notifRepo.EnqueueTx(tx, notification); err != nil {
		return err
	}
	return tx.Commit()
}
