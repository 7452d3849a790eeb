package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// Client talks to the remote order API. Submit creates the order record
// with its initial status; later status changes re-post the same draft,
// which the backend treats as idempotent per order identifier.
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// orderPayload is the wire shape of POST /order/checkout/.
type orderPayload struct {
	UserID        *int64                `json:"user_id,omitempty"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	TotalPrice    float64               `json:"total_price"`
	Address       string                `json:"address"`
	City          string                `json:"city"`
	PostalCode    string                `json:"postal_code"`
	Country       string                `json:"country"`
	PaymentMethod string                `json:"payment_method"`
	Status        string                `json:"status"`
	Items         []domain.OrderItemRef `json:"items"`
}

// errorPayload is the failure body returned by the backend.
type errorPayload struct {
	Detail string `json:"detail"`
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    "orders",
			Timeout: 30 * time.Second,
		}),
	}
}

// Submit posts the draft with the given status.
func (c *Client) Submit(ctx context.Context, draft domain.OrderDraft, status domain.OrderStatus) error {
	payload := orderPayload{
		UserID:        draft.UserID,
		Name:          draft.Billing.Name,
		Email:         draft.Billing.Email,
		TotalPrice:    draft.TotalPrice,
		Address:       draft.Billing.Address,
		City:          draft.Billing.City,
		PostalCode:    draft.Billing.PostalCode,
		Country:       draft.Billing.Country,
		PaymentMethod: draft.PaymentMethod,
		Status:        status.String(),
		Items:         draft.Items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/order/checkout/", bytes.NewReader(body))
		if err != nil {
			return struct{}{}, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return struct{}{}, decodeError(resp)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return &domain.NetworkError{Op: "order submission", Err: err}
	}
	return nil
}

// UpdateStatus marks the order completed or canceled.
func (c *Client) UpdateStatus(ctx context.Context, draft domain.OrderDraft, status domain.OrderStatus) error {
	return c.Submit(ctx, draft, status)
}

func decodeError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload errorPayload
	if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
		return errors.New(payload.Detail)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
