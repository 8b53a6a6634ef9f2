package tracking

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func states(steps []domain.OrderStep) []domain.StepState {
	out := make([]domain.StepState, len(steps))
	for i, s := range steps {
		out[i] = s.State
	}
	return out
}

const (
	done    = domain.StepCompleted
	current = domain.StepCurrent
	pending = domain.StepPending
)

func TestProject(t *testing.T) {
	tests := []struct {
		status string
		want   []domain.StepState
	}{
		{"PLACED", []domain.StepState{current, pending, pending, pending}},
		{"PROCESSING", []domain.StepState{done, current, pending, pending}},
		{"SHIPPED", []domain.StepState{done, done, current, pending}},
		{"DELIVERED", []domain.StepState{done, done, done, current}},
		{"CANCELLED", []domain.StepState{pending, pending, pending, pending}},
		{"", []domain.StepState{pending, pending, pending, pending}},
		{"RETURNED", []domain.StepState{pending, pending, pending, pending}},
		{" shipped ", []domain.StepState{done, done, current, pending}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, states(Project(tt.status)))
		})
	}
}

func TestProject_FixedOrderAndLabels(t *testing.T) {
	steps := Project("PROCESSING")
	require.Len(t, steps, 4)
	assert.Equal(t, domain.OrderStatusPlaced, steps[0].Status)
	assert.Equal(t, domain.OrderStatusProcessing, steps[1].Status)
	assert.Equal(t, domain.OrderStatusShipped, steps[2].Status)
	assert.Equal(t, domain.OrderStatusDelivered, steps[3].Status)
	assert.Equal(t, "Order Placed", steps[0].Label)
	assert.Equal(t, "Delivered", steps[3].Label)
}

func TestProject_ReturnsIndependentCopies(t *testing.T) {
	first := Project("SHIPPED")
	first[0].State = pending

	second := Project("SHIPPED")
	assert.Equal(t, done, second[0].State)
}

func TestRecognized(t *testing.T) {
	for _, s := range []string{"PLACED", "processing", "SHIPPED", "DELIVERED", "CANCELLED"} {
		assert.True(t, Recognized(s), s)
	}
	for _, s := range []string{"", "RETURNED", "ON_HOLD"} {
		assert.False(t, Recognized(s), s)
	}
}

func TestBuild(t *testing.T) {
	tr := Build(domain.Order{ID: "o-1", Status: "cancelled"})
	assert.Equal(t, "o-1", tr.OrderID)
	assert.Equal(t, "CANCELLED", tr.Status)
	assert.True(t, tr.Cancelled)
	assert.Equal(t, []domain.StepState{pending, pending, pending, pending}, states(tr.Steps))

	tr = Build(domain.Order{ID: "o-2", Status: "SHIPPED"})
	assert.False(t, tr.Cancelled)
	assert.Equal(t, []domain.StepState{done, done, current, pending}, states(tr.Steps))
}
