package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCartTTL is how long an untouched cart survives before MongoDB
// expires it.
const DefaultCartTTL = 30 * 24 * time.Hour

type MongoRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
}

func NewMongoRepository(db *mongo.Database, ttl time.Duration) *MongoRepository {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &MongoRepository{
		collection: db.Collection("carts"),
		ttl:        ttl,
	}
}

func (m *MongoRepository) GetCart(ctx context.Context, sessionID string) (*domain.CartSnapshot, error) {
	raw, err := m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart domain.CartSnapshot
	if err := bson.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return &cart, nil
}

// SaveCart replaces the stored item list. CreatedAt is only written on insert.
func (m *MongoRepository) SaveCart(ctx context.Context, cart *domain.CartSnapshot) error {
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	items := cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{
		"$set": bson.M{
			"items":      items,
			"updated_at": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": cart.CreatedAt,
		},
	}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, sessionID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(m.ttl / time.Second)),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
