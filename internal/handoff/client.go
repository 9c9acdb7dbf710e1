package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Receipt is the server's acknowledgement of a handoff.
type Receipt struct {
	HandoffID       string `json:"handoff_id"`
	PaymentMethodID string `json:"payment_method_id,omitempty"`
}

// Client posts serialized payment methods to the handoff endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Send posts the JSON text produced by element.Adapter.Serialize.
func (c *Client) Send(ctx context.Context, serialized string) (*Receipt, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("handoff: client requires a base url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment-methods", bytes.NewBufferString(serialized))
	if err != nil {
		return nil, fmt.Errorf("handoff: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("handoff: http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("handoff: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("handoff: decode receipt: %w", err)
	}
	return &receipt, nil
}
