package domain

import "time"

// CartLineItem is one product entry in a cart. Name, price and stock are
// snapshots taken when the product was added.
type CartLineItem struct {
	ID           string  `json:"id" bson:"id"`
	Name         string  `json:"name" bson:"name"`
	Price        float64 `json:"price" bson:"price"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	ImageURL     string  `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Stock        int     `json:"stock" bson:"stock"`
	Manufacturer string  `json:"manufacturer,omitempty" bson:"manufacturer,omitempty"`
}

// CartSnapshot is the persisted form of a session cart.
type CartSnapshot struct {
	SessionID string         `json:"session_id" bson:"session_id"`
	Items     []CartLineItem `json:"items" bson:"items"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// CheckoutLine is the only cart shape the order API needs.
type CheckoutLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
