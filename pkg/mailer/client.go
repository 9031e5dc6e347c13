package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for a transactional email API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	debug      bool
}

// sendRequest is the email payload.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// sendResponse carries the provider's message id.
type sendResponse struct {
	ID string `json:"id"`
}

// NewClient constructs a new mailer client with sane defaults.
func NewClient(baseURL, apiKey, from string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
		debug:      os.Getenv("ENV") == "development",
	}
}

// Send delivers a plain-text email. The returned id is the provider's message
// reference.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("to", to).
			Str("subject", subject).
			Msg("[MAILER] Sending email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("mailer returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.ID, nil
}
