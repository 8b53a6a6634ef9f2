// Package cart implements the session shopping cart: line items keyed by
// product id, clamped against the stock snapshot taken when they were added.
package cart

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/money"
)

// Store holds the line items of one cart in insertion order.
//
// A Store is not safe for concurrent use. It belongs to a single owner at a
// time; the service layer serialises access per session.
type Store struct {
	items []domain.CartLineItem
}

func New() *Store {
	return &Store{}
}

// AddItem merges candidate into the cart.
//
// An existing line takes the candidate's stock as the freshest known value and
// its quantity becomes min(existing+requested, stock). A new line is inserted
// with min(requested, stock) units, but only when stock > 0. A requested
// quantity below 1 counts as 1. Invalid input is normalised, never rejected.
func (s *Store) AddItem(candidate domain.CartLineItem) {
	if candidate.ID == "" {
		return
	}
	requested := max(candidate.Quantity, 1)
	stock := max(candidate.Stock, 0)

	if i := s.index(candidate.ID); i >= 0 {
		item := &s.items[i]
		item.Stock = stock
		if stock > 0 {
			item.Quantity = money.ClampQuantity(money.AddQuantity(item.Quantity, requested), 1, stock)
		}
		return
	}

	if stock == 0 {
		return
	}
	candidate.Quantity = min(requested, stock)
	candidate.Stock = stock
	s.items = append(s.items, candidate)
}

// UpdateQuantity sets the quantity of the line with the given id, clamped into
// [1, stock]. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, quantity int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items[i].Quantity = money.ClampQuantity(quantity, 1, s.items[i].Stock)
}

func (s *Store) RemoveItem(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
}

func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Item(id string) (domain.CartLineItem, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	return s.items[i], true
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) TotalQuantity() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of price*quantity over all lines, recomputed on every
// call. Display rounding is left to the caller.
func (s *Store) Subtotal() float64 {
	subtotal := 0.0
	for _, item := range s.items {
		subtotal += money.LineTotal(item.Price, item.Quantity)
	}
	return subtotal
}

// CheckoutLines returns the {productId, quantity} pairs sent to the order API.
func (s *Store) CheckoutLines() []domain.CheckoutLine {
	lines := make([]domain.CheckoutLine, 0, len(s.items))
	for _, item := range s.items {
		lines = append(lines, domain.CheckoutLine{ProductID: item.ID, Quantity: item.Quantity})
	}
	return lines
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
