package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCorruptCart  = errors.New("stored cart cannot be decoded")
)

// CartRepository stores whole cart snapshots keyed by session id.
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.CartSnapshot, error)
	SaveCart(ctx context.Context, cart *domain.CartSnapshot) error
	DeleteCart(ctx context.Context, sessionID string) error
}
