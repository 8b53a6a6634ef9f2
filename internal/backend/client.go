// Package backend is the thin client for the external product and order API.
// The API owns prices, stock and the order lifecycle; this package only moves
// data across the boundary.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrRejected    = errors.New("request rejected by backend")
	ErrUnavailable = errors.New("backend unavailable")
)

const maxBodySize = 1 << 20

type authKey struct{}

// WithAuthorization attaches the caller's Authorization header to ctx so it is
// forwarded on backend calls.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, authKey{}, header)
}

// AuthorizationFrom returns the header stored by WithAuthorization.
func AuthorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authKey{}).(string)
	return v
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// OpenFor is how long the breaker stays open before probing again.
	OpenFor time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "backend-api",
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		// Client errors are the caller's fault, not a sign of an unhealthy backend.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return !errors.Is(err, ErrUnavailable)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	if err := c.call(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &p); err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if p.ID == "" {
		p.ID = productID
	}
	return &p, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	if err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &o); err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if o.ID == "" {
		o.ID = orderID
	}
	return &o, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error) {
	var o domain.Order
	if err := c.call(ctx, http.MethodPost, "/orders", req, &o); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return &o, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, method, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := AuthorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, errorMessage(body, resp.Status))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, errorMessage(body, resp.Status))
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %s", ErrRejected, errorMessage(body, resp.Status))
	}
	return body, nil
}

// errorMessage pulls a message out of common error body shapes, falling back
// to the HTTP status line.
func errorMessage(body []byte, fallback string) string {
	var e struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		switch v := e.Error.(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return fallback
}
