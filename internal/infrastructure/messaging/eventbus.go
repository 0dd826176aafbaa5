// Package messaging implements event bus functionality.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// ErrEventBusClosed is returned when publishing on a closed bus.
var ErrEventBusClosed = errors.New("event bus is closed")

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus delivers events to in-process subscribers. The
// default mode is synchronous: Publish invokes every handler before
// returning, which preserves the single-threaded ordering of the store
// loop. Async mode hands events to a bounded worker pool instead.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	asyncMode   bool
	workerPool  chan struct{}
	logger      *slog.Logger
	metrics     *EventBusMetrics
	closed      bool
	wg          sync.WaitGroup
}

// InMemoryEventBusConfig contains configuration for the in-memory bus.
type InMemoryEventBusConfig struct {
	// AsyncMode delivers events on worker goroutines.
	AsyncMode bool

	// WorkerPoolSize bounds concurrent handlers in async mode.
	WorkerPoolSize int

	// Logger for handler errors.
	Logger *slog.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(cfg InMemoryEventBusConfig) *InMemoryEventBus {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &InMemoryEventBus{
		handlers:   make(map[shared.EventType][]shared.EventHandler),
		asyncMode:  cfg.AsyncMode,
		workerPool: make(chan struct{}, cfg.WorkerPoolSize),
		logger:     cfg.Logger,
		metrics:    &EventBusMetrics{},
	}
}

// Subscribe registers a handler for an event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish delivers an event to subscribers.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	targets := make([]shared.EventHandler, 0,
		len(b.handlers[event.EventType()])+len(b.allHandlers))
	targets = append(targets, b.handlers[event.EventType()]...)
	targets = append(targets, b.allHandlers...)
	b.mu.RUnlock()

	b.metrics.recordPublished()

	for _, handler := range targets {
		if b.asyncMode {
			b.dispatchAsync(event, handler)
		} else {
			b.dispatch(event, handler)
		}
	}
	return nil
}

func (b *InMemoryEventBus) dispatch(event shared.Event, handler shared.EventHandler) {
	if err := handler(event); err != nil {
		b.metrics.recordFailed()
		b.logger.Warn("event handler failed",
			"event_type", string(event.EventType()),
			"error", err)
		return
	}
	b.metrics.recordDelivered()
}

func (b *InMemoryEventBus) dispatchAsync(event shared.Event, handler shared.EventHandler) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.workerPool <- struct{}{}
		defer func() { <-b.workerPool }()
		b.dispatch(event, handler)
	}()
}

// Close stops the bus and waits for in-flight async deliveries.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}

// Metrics returns a copy of the bus counters.
func (b *InMemoryEventBus) Metrics() EventBusMetricsSnapshot {
	return b.metrics.snapshot()
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// EventBusMetrics tracks delivery counters.
type EventBusMetrics struct {
	mu        sync.Mutex
	published int64
	delivered int64
	failed    int64
}

// EventBusMetricsSnapshot is a point-in-time copy of the counters.
type EventBusMetricsSnapshot struct {
	Published int64
	Delivered int64
	Failed    int64
}

func (m *EventBusMetrics) recordPublished() {
	m.mu.Lock()
	m.published++
	m.mu.Unlock()
}

func (m *EventBusMetrics) recordDelivered() {
	m.mu.Lock()
	m.delivered++
	m.mu.Unlock()
}

func (m *EventBusMetrics) recordFailed() {
	m.mu.Lock()
	m.failed++
	m.mu.Unlock()
}

func (m *EventBusMetrics) snapshot() EventBusMetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EventBusMetricsSnapshot{
		Published: m.published,
		Delivered: m.delivered,
		Failed:    m.failed,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// REDIS EVENT BUS
// Mirrors local events to Redis pub/sub so companion processes
// (widgets, notifiers) can observe unlock and completion events.
// ══════════════════════════════════════════════════════════════════════════════

// RedisClient is the slice of the Redis API the bus needs.
type RedisClient interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// RedisEventBus publishes events to a Redis channel and re-delivers
// remote events to the local bus. Its own messages are filtered out by
// instance id so events are not delivered twice locally.
type RedisEventBus struct {
	client     RedisClient
	local      *InMemoryEventBus
	channel    string
	instanceID string
	logger     *slog.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// RedisEventBusConfig contains configuration for the Redis bus.
type RedisEventBusConfig struct {
	Channel string
	Logger  *slog.Logger
}

// eventEnvelope is the wire format for events on the Redis channel.
type eventEnvelope struct {
	InstanceID  string                 `json:"instance_id"`
	ID          string                 `json:"id"`
	Type        shared.EventType       `json:"type"`
	AggregateID string                 `json:"aggregate_id"`
	Timestamp   time.Time              `json:"timestamp"`
	Payload     map[string]interface{} `json:"payload"`
}

// NewRedisEventBus creates a Redis-backed bus over a local one.
func NewRedisEventBus(client RedisClient, local *InMemoryEventBus, cfg RedisEventBusConfig) *RedisEventBus {
	if cfg.Channel == "" {
		cfg.Channel = "study-tracker:events"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RedisEventBus{
		client:     client,
		local:      local,
		channel:    cfg.Channel,
		instanceID: uuid.NewString(),
		logger:     cfg.Logger,
	}
}

// Start begins consuming remote events.
func (b *RedisEventBus) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)
	messages, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return fmt.Errorf("messaging: redis subscribe: %w", err)
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				b.handleRemote(msg)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Publish delivers locally and mirrors the event to Redis.
// The mirror write is fire-and-forget: a Redis failure is logged and
// never fails the local delivery.
func (b *RedisEventBus) Publish(event shared.Event) error {
	if err := b.local.Publish(event); err != nil {
		return err
	}

	envelope := eventEnvelope{
		InstanceID:  b.instanceID,
		ID:          uuid.NewString(),
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		Timestamp:   event.OccurredAt(),
		Payload:     event.Payload(),
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		b.logger.Warn("event envelope encode failed", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.client.Publish(ctx, b.channel, payload); err != nil {
		b.logger.Warn("redis event publish failed",
			"event_type", string(event.EventType()),
			"error", err)
	}
	return nil
}

// Subscribe registers a handler on the local bus.
func (b *RedisEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	return b.local.Subscribe(eventType, handler)
}

// SubscribeAll registers a catch-all handler on the local bus.
func (b *RedisEventBus) SubscribeAll(handler shared.EventHandler) error {
	return b.local.SubscribeAll(handler)
}

// handleRemote re-delivers a remote event to local subscribers.
func (b *RedisEventBus) handleRemote(payload []byte) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		b.logger.Warn("remote event decode failed", "error", err)
		return
	}
	if envelope.InstanceID == b.instanceID {
		return
	}
	_ = b.local.Publish(reconstructedEvent{envelope: envelope})
}

// Close stops the consumer goroutine.
func (b *RedisEventBus) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	return nil
}

// reconstructedEvent adapts a remote envelope to the Event interface.
type reconstructedEvent struct {
	envelope eventEnvelope
}

func (e reconstructedEvent) EventType() shared.EventType { return e.envelope.Type }
func (e reconstructedEvent) OccurredAt() time.Time       { return e.envelope.Timestamp }
func (e reconstructedEvent) AggregateID() string         { return e.envelope.AggregateID }
func (e reconstructedEvent) Payload() map[string]interface{} {
	return e.envelope.Payload
}
