// Package poller consumes checkout-completed events and empties the carts of
// sessions whose checkout finished elsewhere.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultTopic = "checkout-completed"
	groupID      = "storefront"

	defaultReadBackoff = time.Second
)

// CartClearer empties a session cart. Clearing a missing cart succeeds.
type CartClearer interface {
	ClearCart(ctx context.Context, sessionID string) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type checkoutEvent struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

type Poller struct {
	carts   CartClearer
	reader  messageReader
	log     *zap.Logger
	backoff time.Duration
}

func NewPoller(carts CartClearer, log *zap.Logger, topic string, brokers ...string) *Poller {
	if topic == "" {
		topic = DefaultTopic
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newPoller(carts, reader, log)
}

func newPoller(carts CartClearer, reader messageReader, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{carts: carts, reader: reader, log: log.Named("poller"), backoff: defaultReadBackoff}
}

// Run reads messages until ctx is cancelled or the reader is closed. Read
// errors are retried after a fixed backoff.
func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			p.log.Warn("error reading message", zap.Error(err), zap.Duration("retry_in", p.backoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff):
			}
			continue
		}
		if err := p.handle(ctx, m); err != nil {
			p.log.Error("checkout event not applied",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Warn("error closing reader", zap.Error(err))
	}
}

func (p *Poller) handle(ctx context.Context, m kafka.Message) error {
	var event checkoutEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		return fmt.Errorf("parse message: %w", err)
	}
	if event.SessionID == "" {
		return errors.New("missing session_id")
	}

	if err := p.carts.ClearCart(ctx, event.SessionID); err != nil {
		return fmt.Errorf("clear cart %s: %w", event.SessionID, err)
	}
	p.log.Info("cart cleared after checkout",
		zap.String("session_id", event.SessionID),
		zap.String("order_id", event.OrderID))
	return nil
}
