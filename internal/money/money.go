// Package money holds the small arithmetic and formatting helpers shared by
// the cart and its HTTP views.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
}

// ClampQuantity bounds q into [lo, hi]. When hi < lo the lower bound wins.
func ClampQuantity(q, lo, hi int) int {
	if q > hi {
		q = hi
	}
	if q < lo {
		q = lo
	}
	return q
}

// AddQuantity adds two quantities, saturating at the int bounds instead of
// wrapping.
func AddQuantity(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

func LineTotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}

// Round rounds to cents, half away from zero.
func Round(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Format renders amount for display, e.g. Format(1234.5, "USD") == "$1,234.50".
// Unknown currency codes are used as a prefix: "CHF 12.00".
func Format(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	prefix, ok := symbols[currency]
	if !ok && currency != "" {
		prefix = currency + " "
	}

	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + prefix + group(whole) + "." + frac
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
