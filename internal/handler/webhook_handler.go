package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/service"
	"github.com/spazahub/spaza_api/internal/utils"
	"github.com/spazahub/spaza_api/pkg/paygate"
	"github.com/spazahub/spaza_api/pkg/paystack"
)

// WebhookHandler receives payment confirmations from the gateways. Both
// endpoints are unauthenticated; the signature/checksum is the authentication.
type WebhookHandler struct {
	paymentService *service.PaymentService
	paystackClient *paystack.Client
	paygateClient  *paygate.Client
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentService, paystackClient *paystack.Client, paygateClient *paygate.Client) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		paystackClient: paystackClient,
		paygateClient:  paygateClient,
	}
}

// Paystack handles POST /webhook/paystack
//
// The signature is an HMAC of the raw body, so the body must be read before
// any JSON binding.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !h.paystackClient.VerifyWebhookSignature(body, signature) {
		log.Warn().Str("ip", c.ClientIP()).Msg("Paystack webhook with bad signature")
		handleError(c, utils.ErrBadWebhookSignature)
		return
	}

	var event paystack.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid webhook payload")
		return
	}

	switch event.Event {
	case "charge.success", "charge.failed":
	default:
		// Unrecognized events are acknowledged so Paystack stops retrying.
		utils.Success(c, 200, "Event ignored", nil)
		return
	}

	succeeded := event.Event == "charge.success" && event.Data.Status == "success"
	if err := h.paymentService.SettleByReference(event.Data.Reference, event.Data.Reference, succeeded); err != nil {
		handleError(c, err)
		return
	}
	utils.Success(c, 200, "Webhook processed", nil)
}

// PayGate handles POST /webhook/paygate
//
// PayWeb3 notifies with a form-encoded POST and expects the literal body
// "OK" on success.
func (h *WebhookHandler) PayGate(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid notify payload")
		return
	}
	form := c.Request.PostForm

	if !h.paygateClient.VerifyNotifyChecksum(form, paygate.NotifyFields) {
		log.Warn().Str("ip", c.ClientIP()).Msg("PayGate notify with bad checksum")
		handleError(c, utils.ErrBadWebhookSignature)
		return
	}

	reference := form.Get("REFERENCE")
	payRequestID := form.Get("PAY_REQUEST_ID")
	succeeded := form.Get("TRANSACTION_STATUS") == paygate.StatusApproved

	if err := h.paymentService.SettleByReference(reference, payRequestID, succeeded); err != nil {
		handleError(c, err)
		return
	}
	c.String(200, "OK")
}
