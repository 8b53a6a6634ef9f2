// Package tracking projects a backend order status onto the fixed sequence of
// tracking steps shown to customers.
package tracking

import (
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// Sequence is the forward-progress order of an order's lifecycle.
var Sequence = []domain.OrderStatus{
	domain.OrderStatusPlaced,
	domain.OrderStatusProcessing,
	domain.OrderStatusShipped,
	domain.OrderStatusDelivered,
}

var labels = map[domain.OrderStatus]string{
	domain.OrderStatusPlaced:     "Order Placed",
	domain.OrderStatusProcessing: "Processing",
	domain.OrderStatusShipped:    "Shipped",
	domain.OrderStatusDelivered:  "Delivered",
}

// projections is computed once; Project hands out copies.
var (
	projections = buildProjections()
	allPending  = project(-1)
)

func buildProjections() map[domain.OrderStatus][]domain.OrderStep {
	m := make(map[domain.OrderStatus][]domain.OrderStep, len(Sequence))
	for i, status := range Sequence {
		m[status] = project(i)
	}
	return m
}

func project(current int) []domain.OrderStep {
	steps := make([]domain.OrderStep, len(Sequence))
	for j, status := range Sequence {
		state := domain.StepPending
		switch {
		case current < 0:
		case j < current:
			state = domain.StepCompleted
		case j == current:
			state = domain.StepCurrent
		}
		steps[j] = domain.OrderStep{Status: status, Label: labels[status], State: state}
	}
	return steps
}

// Normalize trims and upper-cases a raw status string.
func Normalize(status string) domain.OrderStatus {
	return domain.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
}

// Project returns one step per entry of Sequence. Steps before the current
// status are completed, the current one is current, later ones are pending.
// CANCELLED, empty and unrecognized statuses yield all-pending steps.
func Project(status string) []domain.OrderStep {
	steps, ok := projections[Normalize(status)]
	if !ok {
		steps = allPending
	}
	out := make([]domain.OrderStep, len(steps))
	copy(out, steps)
	return out
}

// Recognized reports whether status is one of the known lifecycle values,
// CANCELLED included.
func Recognized(status string) bool {
	s := Normalize(status)
	if s == domain.OrderStatusCancelled {
		return true
	}
	_, ok := projections[s]
	return ok
}

func IsCancelled(status string) bool {
	return Normalize(status) == domain.OrderStatusCancelled
}

// Build assembles the display view for an order.
func Build(order domain.Order) domain.Tracking {
	return domain.Tracking{
		OrderID:   order.ID,
		Status:    string(Normalize(order.Status)),
		Cancelled: IsCancelled(order.Status),
		Steps:     Project(order.Status),
	}
}
