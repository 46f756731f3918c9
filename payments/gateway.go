package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrGatewayNotConfigured = errors.New("payment gateway credentials are not configured")

// GatewayError marks a transport or upstream failure at the payment gateway.
// Callers may retry; idempotent receipts make caller-side retry safe.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("payment gateway error (status %d): %s", e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Order is the gateway's view of a created payment order.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway creates payment orders with the upstream provider. Amounts are
// already expressed in the gateway's minor unit, so no conversion can drift.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}

type restGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewRESTGateway builds a gateway client for a Razorpay-style orders API.
func NewRESTGateway(baseURL, keyID, keySecret string) (Gateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &restGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *restGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amount)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: "order request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to read order response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to decode order response", Err: err}
	}
	return &order, nil
}
