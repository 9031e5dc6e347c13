package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the Paystack API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	debug      bool
}

// NewClient constructs a new Paystack client with sane defaults.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		secretKey:  secretKey,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Initialize starts a hosted checkout session and returns the authorization
// URL the customer must be redirected to.
func (c *Client) Initialize(ctx context.Context, email, reference string, amountCents int64) (*InitializeData, error) {
	req := InitializeRequest{
		Email:     email,
		Amount:    amountCents,
		Reference: reference,
		Currency:  "ZAR",
	}
	var data InitializeData
	if err := c.doRequest(ctx, http.MethodPost, "/transaction/initialize", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Verify queries the current state of a transaction by our reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	var data VerifyData
	if err := c.doRequest(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 hex digest of the raw body keyed with the secret key.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// doRequest performs the HTTP call with bearer auth and decodes the Paystack
// envelope into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		if c.debug {
			log.Debug().
				Str("endpoint", c.baseURL+endpoint).
				RawJSON("request", payload).
				Msg("[PAYSTACK] Outgoing request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[PAYSTACK] Incoming response")
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Status {
		return fmt.Errorf("paystack error: %s", env.Message)
	}
	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
