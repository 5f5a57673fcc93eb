package services

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catalog/internal/domain"
)

// EventPublisher sends a message to a broker exchange. *rabbitmq.Client implements it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ResponseCache stores shaped responses. *cache.Cache implements it.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Event is the message published after every successful mutation.
type Event struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	EntityID   uint   `json:"entityId"`
	OccurredAt string `json:"occurredAt"`
	Data       any    `json:"data,omitempty"`
}

// Notifier fans a mutation out to the event broker and drops cached product
// responses. A nil Notifier, publisher or cache is skipped. Failures are
// logged and never fail the request.
type Notifier struct {
	publisher EventPublisher
	exchange  string
	cache     ResponseCache
	log       *zap.Logger

	// generation counts mutations. Cache writes started before the last
	// mutation are discarded.
	generation atomic.Uint64
}

// NewNotifier creates a Notifier. Pass nil for publisher or cache to disable them.
func NewNotifier(publisher EventPublisher, exchange string, cache ResponseCache, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{
		publisher: publisher,
		exchange:  exchange,
		cache:     cache,
		log:       log,
	}
}

// productKeys matches every cached product response. Owner and category
// names are embedded in them, so any mutation invalidates all of them.
const productKeys = "product:*"

func (n *Notifier) changed(ctx context.Context, eventType string, id uint, data any) {
	if n == nil {
		return
	}
	n.generation.Add(1)
	if n.cache != nil {
		if err := n.cache.DeletePattern(ctx, productKeys); err != nil {
			n.log.Warn("failed to invalidate product cache", zap.String("event", eventType), zap.Error(err))
		}
	}
	if n.publisher == nil {
		return
	}

	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   id,
		OccurredAt: domain.FormatTimestamp(time.Now()),
		Data:       data,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		n.log.Error("failed to marshal event", zap.String("event", eventType), zap.Error(err))
		return
	}
	if err := n.publisher.Publish(n.exchange, eventType, body); err != nil {
		n.log.Warn("failed to publish event", zap.String("event", eventType), zap.Uint("id", id), zap.Error(err))
		return
	}
	n.log.Debug("event published", zap.String("event", eventType), zap.String("eventId", evt.ID))
}

func (n *Notifier) cached(ctx context.Context, key string, dest any) bool {
	if n == nil || n.cache == nil {
		return false
	}
	found, err := n.cache.Get(ctx, key, dest)
	if err != nil {
		n.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

// snapshot returns the mutation generation to hand to store.
func (n *Notifier) snapshot() uint64 {
	if n == nil {
		return 0
	}
	return n.generation.Load()
}

// store caches value unless a mutation happened since gen was taken. An entry
// written while a mutation raced with it is removed again.
func (n *Notifier) store(ctx context.Context, key string, value any, gen uint64) {
	if n == nil || n.cache == nil || n.generation.Load() != gen {
		return
	}
	if err := n.cache.Set(ctx, key, value); err != nil {
		n.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if n.generation.Load() == gen {
		return
	}
	if err := n.cache.Delete(ctx, key); err != nil {
		n.log.Warn("failed to drop stale cache entry", zap.String("key", key), zap.Error(err))
	}
}
