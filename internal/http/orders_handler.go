package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderService interface {
	Checkout(ctx context.Context, sessionID string, details service.CheckoutDetails) (*domain.Order, error)
	Track(ctx context.Context, orderID string) (domain.Tracking, error)
}

type OrdersHandler struct {
	responder
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(orders OrderService, timeout time.Duration, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		responder: responder{log: log},
		orders:    orders,
		timeout:   timeout,
	}
}

type CheckoutRequestDTO struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type CheckoutResponseDTO struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

// POST /api/v1/checkout
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.Checkout(ctx, getSessionID(r.Context()), service.CheckoutDetails{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})
}

// GET /api/v1/orders/{order_id}/tracking
func (h *OrdersHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id is required")
		return
	}

	view, err := h.orders.Track(ctx, orderID)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, view)
}
