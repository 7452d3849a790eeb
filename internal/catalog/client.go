package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// Client fetches the product catalog from the remote pharmacy API.
// Requests go through a circuit breaker so a flapping backend fails
// fast instead of piling up; identical concurrent fetches are collapsed
// through singleflight.
type Client struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group
}

// drugDTO mirrors the wire shape of GET /pharmacy/drugs/.
type drugDTO struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	QuantityAvailable int      `json:"quantity_available"`
	ImageURLs         []string `json:"image_urls"`
	CategoryName      string   `json:"category_name"`
}

type categoryDTO struct {
	Name string `json:"name"`
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "catalog",
			Timeout: 30 * time.Second,
		}),
	}
}

// Products returns the full drug list.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("drugs", func() (interface{}, error) {
		// The fetch is shared by every collapsed caller, so it must
		// not die with whichever caller's context happens to drive it.
		// The client timeout still bounds the request.
		body, err := c.get(context.WithoutCancel(ctx), "/pharmacy/drugs/")
		if err != nil {
			return nil, err
		}

		var dtos []drugDTO
		if err := json.Unmarshal(body, &dtos); err != nil {
			return nil, fmt.Errorf("decode drugs response: %w", err)
		}

		products := make([]domain.Product, 0, len(dtos))
		for _, d := range dtos {
			products = append(products, domain.Product{
				ID:                d.ID,
				Name:              d.Name,
				Description:       d.Description,
				Price:             d.Price,
				QuantityAvailable: d.QuantityAvailable,
				ImageURLs:         d.ImageURLs,
				Category:          d.CategoryName,
			})
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Categories returns the category names.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		body, err := c.get(context.WithoutCancel(ctx), "/pharmacy/categories/")
		if err != nil {
			return nil, err
		}

		var dtos []categoryDTO
		if err := json.Unmarshal(body, &dtos); err != nil {
			return nil, fmt.Errorf("decode categories response: %w", err)
		}

		names := make([]string, 0, len(dtos))
		for _, d := range dtos {
			names = append(names, d.Name)
		}
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, &domain.NetworkError{Op: "catalog fetch " + path, Err: err}
	}
	return body, nil
}
