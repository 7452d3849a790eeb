package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// Client requests onsite payment sessions from the provider.
type Client struct {
	base string
	http *http.Client
}

type sessionResponse struct {
	UUID string `json:"uuid"`
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateSession posts the signed field set to the provider's onsite
// endpoint and returns the session identifier used to launch the
// payment flow.
func (c *Client) CreateSession(ctx context.Context, fields []Field) (string, error) {
	body := ParamString(fields)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/onsite/process", strings.NewReader(body))
	if err != nil {
		return "", &domain.NetworkError{Op: "payment session", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Op: "payment session", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.NetworkError{Op: "payment session", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", &domain.NetworkError{Op: "payment session", Err: fmt.Errorf("decode response: %w", err)}
	}
	if session.UUID == "" {
		return "", &domain.NetworkError{Op: "payment session", Err: fmt.Errorf("provider returned no session id")}
	}
	return session.UUID, nil
}
