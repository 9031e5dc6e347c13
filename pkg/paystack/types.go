package paystack

import "encoding/json"

// InitializeRequest starts a hosted checkout session.
type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // minor units (cents)
	Reference   string `json:"reference"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeData is the payload of a successful initialize call.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData is the payload of a transaction verify call.
type VerifyData struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"` // "success", "failed", "abandoned"
	Reference       string `json:"reference"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	GatewayResponse string `json:"gateway_response"`
}

// envelope is the Paystack response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// WebhookEvent is the body of an incoming Paystack webhook.
type WebhookEvent struct {
	Event string     `json:"event"` // "charge.success", "charge.failed"
	Data  VerifyData `json:"data"`
}
