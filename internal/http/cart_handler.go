package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/money"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*cart.Store, error)
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*cart.Store, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Store, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*cart.Store, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	responder
	carts    CartService
	timeout  time.Duration
	currency string
}

func NewCartHandler(carts CartService, timeout time.Duration, currency string, log *zap.Logger) *CartHandler {
	return &CartHandler{
		responder: responder{log: log},
		carts:     carts,
		timeout:   timeout,
		currency:  currency,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartItemDTO struct {
	domain.CartLineItem
	LineTotal float64 `json:"line_total"`
}

type CartResponseDTO struct {
	SessionID         string        `json:"session_id"`
	Items             []CartItemDTO `json:"items"`
	LineCount         int           `json:"line_count"`
	TotalQuantity     int           `json:"total_quantity"`
	Subtotal          float64       `json:"subtotal"`
	FormattedSubtotal string        `json:"formatted_subtotal"`
	Currency          string        `json:"currency"`
}

func (h *CartHandler) view(sessionID string, store *cart.Store) CartResponseDTO {
	items := store.Items()
	dto := CartResponseDTO{
		SessionID:     sessionID,
		Items:         make([]CartItemDTO, 0, len(items)),
		LineCount:     store.Len(),
		TotalQuantity: store.TotalQuantity(),
		Subtotal:      money.Round(store.Subtotal()),
		Currency:      h.currency,
	}
	dto.FormattedSubtotal = money.Format(store.Subtotal(), h.currency)
	for _, it := range items {
		dto.Items = append(dto.Items, CartItemDTO{
			CartLineItem: it,
			LineTotal:    money.Round(money.LineTotal(it.Price, it.Quantity)),
		})
	}
	return dto
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	store, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.view(sessionID, store))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	// A bare add from a product card adds one unit; the store clamps the rest.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sessionID := getSessionID(r.Context())
	store, err := h.carts.AddItem(ctx, sessionID, req.ProductID, quantity)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, h.view(sessionID, store))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		h.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	sessionID := getSessionID(r.Context())
	store, err := h.carts.UpdateQuantity(ctx, sessionID, productID, *req.Quantity)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.view(sessionID, store))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	sessionID := getSessionID(r.Context())
	store, err := h.carts.RemoveItem(ctx, sessionID, productID)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.view(sessionID, store))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if err := h.carts.ClearCart(ctx, sessionID); err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, h.view(sessionID, cart.New()))
}
