package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Failures: 2, OpenFor: time.Minute})
}

func TestGetProduct_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/p-1", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"p-1","name":"Gauze roll","price":4.25,"stock":12,"manufacturer":"Acme"}`))
	})

	ctx := WithAuthorization(context.Background(), "Bearer abc")
	p, err := c.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Gauze roll", p.Name)
	assert.Equal(t, 4.25, p.Price)
	assert.Equal(t, 12, p.Stock)
	assert.Equal(t, "Acme", p.Manufacturer)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"product not found"}`))
	})

	_, err := c.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "product not found")
}

func TestGetOrder_FillsMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/o-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"SHIPPED","totalAmount":180}`))
	})

	o, err := c.GetOrder(context.Background(), "o-9")
	require.NoError(t, err)
	assert.Equal(t, "o-9", o.ID)
	assert.Equal(t, "SHIPPED", o.Status)
}

func TestPlaceOrder_SendsCheckoutLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []domain.CheckoutLine{{ProductID: "p1", Quantity: 2}}, req.Items)
		assert.Equal(t, "1 Clinic Rd", req.ShippingAddress)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"o-1","status":"PLACED","totalAmount":100}`))
	})

	o, err := c.PlaceOrder(context.Background(), domain.CheckoutRequest{
		Items:           []domain.CheckoutLine{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: "1 Clinic Rd",
	})
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, "PLACED", o.Status)
}

func TestPlaceOrder_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"insufficient_stock","message":"only 1 left of p1"}}`))
	})

	_, err := c.PlaceOrder(context.Background(), domain.CheckoutRequest{})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "only 1 left of p1")
}

func TestServerError_IsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetOrder(context.Background(), "o-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < 2; i++ {
		_, err := c.GetOrder(context.Background(), "o-1")
		require.ErrorIs(t, err, ErrUnavailable)
	}
	_, err := c.GetOrder(context.Background(), "o-1")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must short-circuit")
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 5; i++ {
		_, err := c.GetProduct(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestMalformedBody_IsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := c.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeadline_KeepsContextCause(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.GetOrder(ctx, "o-1")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCanceledCallsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":"o-1","status":"PLACED"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		_, err := c.GetOrder(ctx, "o-1")
		require.ErrorIs(t, err, context.Canceled)
	}

	o, err := c.GetOrder(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, int32(1), calls.Load())
}
