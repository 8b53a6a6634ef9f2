package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/tracking"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrEmptyCart = errors.New("cart is empty")

const lockStripes = 64

// Backend is the part of the external API the cart service depends on.
type Backend interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (*domain.Order, error)
}

type CheckoutDetails struct {
	ShippingAddress string
	PaymentMethod   string
}

// CartService owns the load, mutate and persist cycle for session carts.
// Every operation on a session runs under that session's stripe lock, so a
// cart has a single writer at a time.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	backend Backend
	log     *zap.Logger
	sfg     singleflight.Group // collapses concurrent reads of the same cart
	locks   [lockStripes]sync.Mutex
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, backend Backend, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{
		repo:    repo,
		cache:   cache,
		backend: backend,
		log:     log,
	}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*cart.Store, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (any, error) {
		unlock := s.lock(sessionID)
		defer unlock()
		return s.load(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return cart.FromItems(v.(*domain.CartSnapshot).Items), nil
}

// AddItem fetches the product for its current price and stock, then adds it.
// An out-of-stock product leaves the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*cart.Store, error) {
	product, err := s.backend.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(store *cart.Store) {
		if product.Stock <= 0 {
			if _, ok := store.Item(product.ID); !ok {
				logger.With(ctx, s.log).Debug("product out of stock", zap.String("product_id", product.ID))
			}
		}
		store.AddItem(product.LineItem(quantity))
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Store, error) {
	return s.mutate(ctx, sessionID, func(store *cart.Store) {
		store.UpdateQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cart.Store, error) {
	return s.mutate(ctx, sessionID, func(store *cart.Store) {
		store.RemoveItem(productID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, func(store *cart.Store) {
		store.Clear()
	})
	return err
}

// Checkout places an order for the cart contents. The cart is cleared only
// after the backend has accepted the order.
func (s *CartService) Checkout(ctx context.Context, sessionID string, details CheckoutDetails) (*domain.Order, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	snap, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store := cart.FromItems(snap.Items)
	if store.Len() == 0 {
		return nil, ErrEmptyCart
	}

	order, err := s.backend.PlaceOrder(ctx, domain.CheckoutRequest{
		Items:           store.CheckoutLines(),
		ShippingAddress: details.ShippingAddress,
		PaymentMethod:   details.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	log := logger.With(ctx, s.log)
	log.Info("order placed",
		zap.String("session_id", sessionID),
		zap.String("order_id", order.ID),
		zap.Int("lines", store.Len()))

	store.Clear()
	if err := s.persist(ctx, snap, store); err != nil {
		log.Error("clear cart after checkout failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return order, nil
}

// Track fetches an order and projects its status onto the tracking steps.
func (s *CartService) Track(ctx context.Context, orderID string) (domain.Tracking, error) {
	order, err := s.backend.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Tracking{}, err
	}
	if !tracking.Recognized(order.Status) {
		logger.With(ctx, s.log).Warn("unrecognized order status",
			zap.String("order_id", order.ID),
			zap.String("status", order.Status))
	}
	return tracking.Build(*order), nil
}

func (s *CartService) mutate(ctx context.Context, sessionID string, apply func(*cart.Store)) (*cart.Store, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	snap, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	store := cart.FromItems(snap.Items)
	apply(store)

	if err := s.persist(ctx, snap, store); err != nil {
		return nil, err
	}
	return store, nil
}

// load reads the snapshot from cache, then the repository. A missing or
// undecodable cart is an empty one. Callers hold the session lock.
func (s *CartService) load(ctx context.Context, sessionID string) (*domain.CartSnapshot, error) {
	log := logger.With(ctx, s.log).With(zap.String("session_id", sessionID))

	snap, err := s.cache.Get(ctx, sessionID)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn("cache get error", zap.Error(err))
	}

	snap, err = s.repo.GetCart(ctx, sessionID)
	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		return emptySnapshot(sessionID), nil
	case errors.Is(err, repository.ErrCorruptCart):
		log.Error("discarding corrupt cart", zap.Error(err))
		return emptySnapshot(sessionID), nil
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := s.cache.Set(ctx, sessionID, snap); err != nil {
		log.Warn("cache set error", zap.Error(err))
	}
	return snap, nil
}

// persist writes the store back to the repository and drops the cached copy.
// An emptied cart is deleted rather than stored.
func (s *CartService) persist(ctx context.Context, snap *domain.CartSnapshot, store *cart.Store) error {
	next := &domain.CartSnapshot{
		SessionID: snap.SessionID,
		Items:     store.Items(),
		CreatedAt: snap.CreatedAt,
	}

	if store.Len() == 0 {
		if err := s.repo.DeleteCart(ctx, snap.SessionID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
			return fmt.Errorf("delete cart: %w", err)
		}
	} else if err := s.repo.SaveCart(ctx, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	s.invalidateCache(snap.SessionID)
	return nil
}

func (s *CartService) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.log.Warn("cache invalidate error", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *CartService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func emptySnapshot(sessionID string) *domain.CartSnapshot {
	return &domain.CartSnapshot{SessionID: sessionID}
}
