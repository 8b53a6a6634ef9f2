package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name      string
		q, lo, hi int
		want      int
	}{
		{"inside range", 3, 1, 10, 3},
		{"below range", 0, 1, 10, 1},
		{"negative", -5, 1, 10, 1},
		{"above range", 12, 1, 10, 10},
		{"empty range keeps lower bound", 4, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.q, tt.lo, tt.hi))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 100.0, LineTotal(50, 2))
	assert.Equal(t, 0.0, LineTotal(19.99, 0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.3, Round(0.1+0.2))
	assert.Equal(t, 2.68, Round(2.675))
	assert.Equal(t, -1.24, Round(-1.235))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$180.00", Format(180, "USD"))
	assert.Equal(t, "$1,234.50", Format(1234.5, "usd"))
	assert.Equal(t, "₹1,234,567.89", Format(1234567.891, "INR"))
	assert.Equal(t, "-€12.30", Format(-12.3, "EUR"))
	assert.Equal(t, "CHF 0.99", Format(0.99, "CHF"))
	assert.Equal(t, "5.00", Format(5, ""))
}

func TestAddQuantity_Saturates(t *testing.T) {
	assert.Equal(t, 5, AddQuantity(2, 3))
	assert.Equal(t, math.MaxInt, AddQuantity(2, math.MaxInt))
	assert.Equal(t, math.MaxInt, AddQuantity(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MinInt, AddQuantity(-2, math.MinInt))
	assert.Equal(t, -1, AddQuantity(2, -3))
}
