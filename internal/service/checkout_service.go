package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/repository"
	"github.com/spazahub/spaza_api/internal/utils"
)

// CheckoutService turns a cart into a pending transaction, an order, and its
// snapshotted line items.
type CheckoutService struct {
	db           *sqlx.DB
	productRepo  *repository.ProductRepository
	campaignRepo *repository.CampaignRepository
	orderRepo    *repository.OrderRepository
	trxRepo      *repository.TransactionRepository
	gateways     map[models.PaymentGateway]GatewayClient
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(db *sqlx.DB, productRepo *repository.ProductRepository, campaignRepo *repository.CampaignRepository, orderRepo *repository.OrderRepository, trxRepo *repository.TransactionRepository, gateways map[models.PaymentGateway]GatewayClient) *CheckoutService {
	return &CheckoutService{
		db:           db,
		productRepo:  productRepo,
		campaignRepo: campaignRepo,
		orderRepo:    orderRepo,
		trxRepo:      trxRepo,
		gateways:     gateways,
	}
}

// CartItem is one entry of a checkout cart.
type CartItem struct {
	BranchProductID int `json:"branchProductId" binding:"required"`
	Quantity        int `json:"quantity" binding:"required"`
}

// CheckoutRequest carries the fields of a checkout call.
type CheckoutRequest struct {
	BranchID       int        `json:"branchId" binding:"required"`
	DeliveryMethod string     `json:"deliveryMethod" binding:"required,oneof=delivery pickup"`
	Gateway        string     `json:"gateway"`
	Items          []CartItem `json:"items" binding:"required"`
}

// CheckoutResult is returned to the client so it can redirect the customer to
// the gateway's hosted payment page.
type CheckoutResult struct {
	OrderID    int             `json:"orderId"`
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	PaymentURL string          `json:"paymentUrl"`
}

// Checkout creates the transaction, the order in PAYMENT_PENDING, and one
// ordered product per cart line. The order price snapshot is the full branch
// price before any discount; the applicable campaign (if any) is attached to
// the line item by reference for later display.
func (s *CheckoutService) Checkout(ctx context.Context, customer *models.UserAccount, req *CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, utils.ErrEmptyCart
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, utils.ErrInvalidQuantity
		}
	}

	gateway := models.PaymentGateway(req.Gateway)
	if gateway == "" {
		gateway = models.GatewayPaystack
	}
	gatewayClient, ok := s.gateways[gateway]
	if !ok {
		return nil, utils.ErrGatewayUnavailable
	}

	now := time.Now()
	total := decimal.Zero
	lines := make([]models.OrderedProduct, 0, len(req.Items))
	for _, item := range req.Items {
		bp, err := s.productRepo.GetBranchProductByID(item.BranchProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, utils.ErrBranchProductNotFound
			}
			return nil, err
		}
		if bp.BranchID != req.BranchID {
			return nil, utils.ErrMixedBranchCart
		}

		campaign, err := s.campaignRepo.GetActiveForBranchProduct(bp.BranchID, bp.ID, now)
		if err != nil {
			return nil, err
		}
		line := models.OrderedProduct{
			BranchProductID: bp.ID,
			QuantityOrdered: item.Quantity,
			OrderPrice:      bp.Price,
		}
		if campaign != nil {
			line.SaleCampaignID = &campaign.ID
		}
		lines = append(lines, line)
		total = total.Add(bp.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	trx := &models.Transaction{
		Reference:  uuid.New().String(),
		Gateway:    gateway,
		CustomerID: customer.ID,
		BranchID:   req.BranchID,
		Amount:     total,
		Status:     models.TrxPending,
	}
	order := &models.Order{
		CustomerID:     customer.ID,
		BranchID:       req.BranchID,
		Status:         models.OrderPaymentPending,
		DeliveryMethod: models.DeliveryMethod(req.DeliveryMethod),
		Total:          total,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.trxRepo.CreateTx(tx, trx); err != nil {
		return nil, err
	}
	order.TransactionID = trx.ID
	if err := s.orderRepo.CreateTx(tx, order); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].OrderID = order.ID
		if err := s.orderRepo.AddItemTx(tx, &lines[i]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Int("order_id", order.ID).
		Str("reference", trx.Reference).
		Str("amount", total.StringFixed(2)).
		Msg("Checkout created")

	// Amount goes to the gateway in minor units.
	amountCents := total.Mul(hundred).IntPart()
	paymentURL, err := gatewayClient.InitiatePayment(ctx, trx.Reference, customer.Email, amountCents)
	if err != nil {
		// The order stays in PAYMENT_PENDING; the client can retry payment
		// against the same reference or the status worker reconciles later.
		log.Error().Err(err).Str("reference", trx.Reference).Msg("Gateway initiation failed")
		return nil, utils.ErrGatewayUnavailable
	}

	return &CheckoutResult{
		OrderID:    order.ID,
		Reference:  trx.Reference,
		Amount:     total,
		PaymentURL: paymentURL,
	}, nil
}
