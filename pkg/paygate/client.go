package paygate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the PayGate PayWeb3 API. PayWeb3 is
// form-encoded, not JSON, and authenticates every message with an MD5
// checksum over the concatenated fields plus the shared secret.
type Client struct {
	httpClient *http.Client
	baseURL    string
	payGateID  string
	secret     string
	debug      bool
}

// NewClient constructs a new PayGate client with sane defaults.
func NewClient(baseURL, payGateID, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		payGateID:  payGateID,
		secret:     secret,
		debug:      os.Getenv("ENV") == "development",
	}
}

// checksum generates the PayWeb3 MD5 hex digest over the concatenated
// field values followed by the shared secret.
func (c *Client) checksum(fields ...string) string {
	sum := md5.Sum([]byte(strings.Join(fields, "") + c.secret))
	return hex.EncodeToString(sum[:])
}

// Initiate starts a payment request and returns the PayRequestID used for
// the redirect and for later queries.
func (c *Client) Initiate(ctx context.Context, reference, amountCents, email, returnURL, notifyURL string) (*InitiateResponse, error) {
	date := time.Now().UTC().Format("2006-01-02 15:04:05")
	form := url.Values{}
	form.Set("PAYGATE_ID", c.payGateID)
	form.Set("REFERENCE", reference)
	form.Set("AMOUNT", amountCents)
	form.Set("CURRENCY", "ZAR")
	form.Set("RETURN_URL", returnURL)
	form.Set("TRANSACTION_DATE", date)
	form.Set("LOCALE", "en-za")
	form.Set("COUNTRY", "ZAF")
	form.Set("EMAIL", email)
	form.Set("NOTIFY_URL", notifyURL)
	form.Set("CHECKSUM", c.checksum(c.payGateID, reference, amountCents, "ZAR", returnURL, date, "en-za", "ZAF", email, notifyURL))

	values, err := c.doForm(ctx, "/initiate.trans", form)
	if err != nil {
		return nil, err
	}
	resp := &InitiateResponse{
		PayGateID:    values.Get("PAYGATE_ID"),
		PayRequestID: values.Get("PAY_REQUEST_ID"),
		Reference:    values.Get("REFERENCE"),
		Checksum:     values.Get("CHECKSUM"),
	}
	if resp.PayRequestID == "" {
		return nil, fmt.Errorf("paygate initiate failed: %s", values.Get("ERROR"))
	}
	return resp, nil
}

// Query fetches the current status of a payment request.
func (c *Client) Query(ctx context.Context, payRequestID, reference string) (*QueryResponse, error) {
	form := url.Values{}
	form.Set("PAYGATE_ID", c.payGateID)
	form.Set("PAY_REQUEST_ID", payRequestID)
	form.Set("REFERENCE", reference)
	form.Set("CHECKSUM", c.checksum(c.payGateID, payRequestID, reference))

	values, err := c.doForm(ctx, "/query.trans", form)
	if err != nil {
		return nil, err
	}
	resp := &QueryResponse{
		PayRequestID:      values.Get("PAY_REQUEST_ID"),
		Reference:         values.Get("REFERENCE"),
		TransactionStatus: values.Get("TRANSACTION_STATUS"),
		ResultCode:        values.Get("RESULT_CODE"),
		Amount:            values.Get("AMOUNT"),
		Checksum:          values.Get("CHECKSUM"),
	}
	if resp.TransactionStatus == "" {
		return nil, fmt.Errorf("paygate query failed: %s", values.Get("ERROR"))
	}
	return resp, nil
}

// VerifyNotifyChecksum validates the checksum on an incoming notify POST.
// The checksum field itself is excluded from the digest; field order follows
// the order PayGate documents for notify messages.
func (c *Client) VerifyNotifyChecksum(form url.Values, orderedFields []string) bool {
	parts := make([]string, 0, len(orderedFields))
	for _, f := range orderedFields {
		parts = append(parts, form.Get(f))
	}
	expected := c.checksum(parts...)
	return expected == form.Get("CHECKSUM")
}

// doForm posts a form-encoded request and parses the form-encoded response.
func (c *Client) doForm(ctx context.Context, endpoint string, form url.Values) (url.Values, error) {
	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			Str("request", form.Encode()).
			Msg("[PAYGATE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("[PAYGATE] Incoming response")
	}

	values, err := url.ParseQuery(string(respBody))
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return values, nil
}
