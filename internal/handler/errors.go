package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/spazahub/spaza_api/internal/utils"
)

// handleError maps domain errors to HTTP responses. Every handler funnels
// service errors through here so status codes stay consistent across the API.
func handleError(c *gin.Context, err error) {
	switch err {
	// Validation
	case utils.ErrInvalidPercentage:
		utils.Error(c, 400, "INVALID_PERCENTAGE", "Percentage off must be between 0 and 50")
	case utils.ErrInvalidPrice:
		utils.Error(c, 400, "INVALID_PRICE", "Price must not be negative")
	case utils.ErrInvalidQuantity:
		utils.Error(c, 400, "INVALID_QUANTITY", "Quantity must be at least 1")
	case utils.ErrEmptyCart:
		utils.Error(c, 400, "EMPTY_CART", "Cart must contain at least one item")
	case utils.ErrMixedBranchCart:
		utils.Error(c, 400, "MIXED_BRANCH_CART", "All cart items must belong to the same branch")
	case utils.ErrInvalidOrderID:
		utils.Error(c, 400, "INVALID_ORDER_ID", "Invalid order id")

	// Authentication and authorization
	case utils.ErrInvalidCredentials:
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case utils.ErrAccountInactive:
		utils.Error(c, 403, "ACCOUNT_INACTIVE", "Account is deactivated")
	case utils.ErrForbidden:
		utils.Error(c, 403, "FORBIDDEN", "You do not have access to this resource")
	case utils.ErrEmailTaken:
		utils.Error(c, 409, "EMAIL_TAKEN", "An account with this email already exists")

	// Not found
	case utils.ErrAccountNotFound:
		utils.Error(c, 404, "ACCOUNT_NOT_FOUND", "Account not found")
	case utils.ErrBranchNotFound:
		utils.Error(c, 404, "BRANCH_NOT_FOUND", "Branch not found")
	case utils.ErrProductNotFound:
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case utils.ErrBranchProductNotFound:
		utils.Error(c, 404, "BRANCH_PRODUCT_NOT_FOUND", "Branch product not found")
	case utils.ErrCampaignNotFound:
		utils.Error(c, 404, "CAMPAIGN_NOT_FOUND", "Sale campaign not found")
	case utils.ErrOrderNotFound:
		utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
	case utils.ErrTransactionNotFound:
		utils.Error(c, 404, "TRANSACTION_NOT_FOUND", "Transaction not found")

	// State conflicts
	case utils.ErrOrderNotCancellable:
		utils.Error(c, 400, "ORDER_NOT_CANCELLABLE", "Order can no longer be cancelled")
	case utils.ErrOrderNotFulfillable:
		utils.Error(c, 409, "ORDER_NOT_FULFILLABLE", "Order is not awaiting fulfilment")
	case utils.ErrVersionConflict:
		utils.Error(c, 409, "VERSION_CONFLICT", "Order was modified concurrently, retry")
	case utils.ErrTransactionSettled:
		utils.Error(c, 409, "TRANSACTION_SETTLED", "Transaction has already been settled")

	// Integrations
	case utils.ErrGatewayUnavailable:
		utils.Error(c, 502, "GATEWAY_UNAVAILABLE", "Payment gateway is unavailable, try again later")
	case utils.ErrBadWebhookSignature:
		utils.Error(c, 401, "BAD_SIGNATURE", "Webhook signature verification failed")
	case utils.ErrMailerUnavailable:
		utils.Error(c, 502, "MAILER_UNAVAILABLE", "Email provider is unavailable")

	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled service error")
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
