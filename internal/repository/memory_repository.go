package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// MemoryRepository keeps snapshots in process memory. Used when no MongoDB
// URI is configured and in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.CartSnapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]domain.CartSnapshot)}
}

func (r *MemoryRepository) GetCart(_ context.Context, sessionID string) (*domain.CartSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	cart.Items = slices.Clone(cart.Items)
	return &cart, nil
}

func (r *MemoryRepository) SaveCart(_ context.Context, cart *domain.CartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.carts[cart.SessionID]; ok {
		cart.CreatedAt = existing.CreatedAt
	} else if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	stored := *cart
	stored.Items = slices.Clone(cart.Items)
	r.carts[cart.SessionID] = stored
	return nil
}

func (r *MemoryRepository) DeleteCart(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[sessionID]; !ok {
		return ErrCartNotFound
	}
	delete(r.carts, sessionID)
	return nil
}
