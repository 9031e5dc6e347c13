package utils

import "errors"

// Common application errors used across services.
var (
	// Validation
	ErrInvalidPercentage = errors.New("INVALID_PERCENTAGE")
	ErrInvalidPrice      = errors.New("INVALID_PRICE")
	ErrInvalidQuantity   = errors.New("INVALID_QUANTITY")
	ErrEmptyCart         = errors.New("EMPTY_CART")
	ErrMixedBranchCart   = errors.New("MIXED_BRANCH_CART")
	ErrInvalidOrderID    = errors.New("INVALID_ORDER_ID")

	// Not found
	ErrAccountNotFound       = errors.New("ACCOUNT_NOT_FOUND")
	ErrBranchNotFound        = errors.New("BRANCH_NOT_FOUND")
	ErrProductNotFound       = errors.New("PRODUCT_NOT_FOUND")
	ErrBranchProductNotFound = errors.New("BRANCH_PRODUCT_NOT_FOUND")
	ErrCampaignNotFound      = errors.New("CAMPAIGN_NOT_FOUND")
	ErrOrderNotFound         = errors.New("ORDER_NOT_FOUND")
	ErrTransactionNotFound   = errors.New("TRANSACTION_NOT_FOUND")

	// Authorization
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrForbidden          = errors.New("FORBIDDEN")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")

	// State conflict
	ErrOrderNotCancellable = errors.New("ORDER_NOT_CANCELLABLE")
	ErrOrderNotFulfillable = errors.New("ORDER_NOT_FULFILLABLE")
	ErrVersionConflict     = errors.New("VERSION_CONFLICT")
	ErrTransactionSettled  = errors.New("TRANSACTION_SETTLED")

	// Integration
	ErrGatewayUnavailable  = errors.New("GATEWAY_UNAVAILABLE")
	ErrBadWebhookSignature = errors.New("BAD_WEBHOOK_SIGNATURE")
	ErrMailerUnavailable   = errors.New("MAILER_UNAVAILABLE")
)
