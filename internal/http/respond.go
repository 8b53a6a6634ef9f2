package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type responder struct {
	log *zap.Logger
}

func (rs responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.Warn("failed to encode response", zap.Error(err))
	}
}

func (rs responder) respondError(w http.ResponseWriter, status int, code, message string) {
	rs.respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusClientClosedRequest is the nginx convention for a caller that went
// away before the response was written.
const statusClientClosedRequest = 499

// handleServiceError maps service and backend errors onto HTTP statuses.
func (rs responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		status  int
		code    string
		message string
	)

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		status, code, message = http.StatusConflict, "empty_cart", "cart is empty"
	case errors.Is(err, backend.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, backend.ErrRejected):
		status, code, message = http.StatusUnprocessableEntity, "rejected", "request rejected by backend"
	case errors.Is(err, context.Canceled):
		status, code, message = statusClientClosedRequest, "client_closed_request", "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		status, code, message = http.StatusGatewayTimeout, "timeout", "request timed out"
	case errors.Is(err, backend.ErrUnavailable):
		status, code, message = http.StatusServiceUnavailable, "service_unavailable", "backend unavailable"
	default:
		logger.With(ctx, rs.log).Error("request failed", zap.Error(err))
		rs.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	rs.respondJSON(w, status, ErrorResponse{Error: message, Code: code, Details: err.Error()})
}
