package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/spazahub/spaza_api/pkg/paygate"
	"github.com/spazahub/spaza_api/pkg/paystack"
)

// GatewayClient abstracts payment initiation and status queries across the
// supported gateways. Gateways are black boxes: we hand them a reference and
// an amount, they hand back a redirect URL and, eventually, a webhook.
type GatewayClient interface {
	InitiatePayment(ctx context.Context, reference, email string, amountCents int64) (redirectURL string, err error)
	QueryPayment(ctx context.Context, reference string) (succeeded bool, gatewayRef string, err error)
}

// paystackGateway adapts the Paystack client to GatewayClient.
type paystackGateway struct {
	client *paystack.Client
}

// NewPaystackGateway wraps a Paystack client.
func NewPaystackGateway(client *paystack.Client) GatewayClient {
	return &paystackGateway{client: client}
}

func (g *paystackGateway) InitiatePayment(ctx context.Context, reference, email string, amountCents int64) (string, error) {
	data, err := g.client.Initialize(ctx, email, reference, amountCents)
	if err != nil {
		return "", err
	}
	return data.AuthorizationURL, nil
}

func (g *paystackGateway) QueryPayment(ctx context.Context, reference string) (bool, string, error) {
	data, err := g.client.Verify(ctx, reference)
	if err != nil {
		return false, "", err
	}
	return data.Status == "success", data.Reference, nil
}

// paygateGateway adapts the PayGate client to GatewayClient.
type paygateGateway struct {
	client    *paygate.Client
	returnURL string
	notifyURL string

	// PayWeb3 queries need its PayRequestID, which we key by our reference.
	// One process handles both initiate and query for stale checks, so an
	// in-memory map suffices; a lost entry only delays the status worker
	// until the notify webhook arrives.
	mu            sync.Mutex
	payRequestIDs map[string]string
}

// NewPayGateGateway wraps a PayGate client.
func NewPayGateGateway(client *paygate.Client, returnURL, notifyURL string) GatewayClient {
	return &paygateGateway{
		client:        client,
		returnURL:     returnURL,
		notifyURL:     notifyURL,
		payRequestIDs: make(map[string]string),
	}
}

func (g *paygateGateway) InitiatePayment(ctx context.Context, reference, email string, amountCents int64) (string, error) {
	resp, err := g.client.Initiate(ctx, reference, centsString(amountCents), email, g.returnURL, g.notifyURL)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.payRequestIDs[reference] = resp.PayRequestID
	g.mu.Unlock()
	return g.returnURL + "?PAY_REQUEST_ID=" + resp.PayRequestID, nil
}

func (g *paygateGateway) QueryPayment(ctx context.Context, reference string) (bool, string, error) {
	g.mu.Lock()
	payRequestID, ok := g.payRequestIDs[reference]
	g.mu.Unlock()
	if !ok {
		return false, "", nil
	}
	resp, err := g.client.Query(ctx, payRequestID, reference)
	if err != nil {
		return false, "", err
	}
	return resp.TransactionStatus == paygate.StatusApproved, resp.PayRequestID, nil
}

func centsString(cents int64) string {
	return strconv.FormatInt(cents, 10)
}
