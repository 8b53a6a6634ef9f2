package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/money"
)

var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// MarshalJSON encodes the cart as a JSON array of line items.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// FromJSON rebuilds a cart from a JSON array of line items. Missing data gives
// an empty cart; corrupt data gives an empty cart and ErrCorruptSnapshot.
func FromJSON(data []byte) (*Store, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return New(), nil
	}

	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return New(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return FromItems(items), nil
}

// FromItems rebuilds a cart from persisted line items. Lines without an id are
// dropped, duplicate ids are merged into the first occurrence and quantities
// are clamped into [1, stock]. A line whose stock snapshot has dropped to zero
// survives the round trip with its quantity unchanged.
func FromItems(items []domain.CartLineItem) *Store {
	s := New()
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		item.Stock = max(item.Stock, 0)
		if i := s.index(item.ID); i >= 0 {
			item.Quantity = money.AddQuantity(max(item.Quantity, 1), s.items[i].Quantity)
			item = withLine(s.items[i], item.Quantity, item.Stock)
			s.items[i] = item
			continue
		}
		s.items = append(s.items, normalise(item))
	}
	return s
}

func withLine(item domain.CartLineItem, quantity, stock int) domain.CartLineItem {
	item.Quantity = quantity
	item.Stock = stock
	return normalise(item)
}

func normalise(item domain.CartLineItem) domain.CartLineItem {
	item.Quantity = max(item.Quantity, 1)
	if item.Stock > 0 {
		item.Quantity = min(item.Quantity, item.Stock)
	}
	return item
}
