package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus fans published events out to subscribers and persists them to the
// event log. Delivery never blocks a publisher: a full subscriber channel
// drops the event for that subscriber only.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event // eventType -> channels
	entitySubs  map[string][]chan Event // entityType -> channels
	allSubs     []chan Event            // subscribers to all events
	log         *EventLog               // SQLite persistence (may be nil)
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		entitySubs:  make(map[string][]chan Event),
		log:         log,
		logger:      logger,
	}
}

// Publish persists an event and sends it to every matching subscriber.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}

	var targets []chan Event
	targets = append(targets, b.subscribers[e.EventType()]...)
	targets = append(targets, b.entitySubs[e.EntityType()]...)
	targets = append(targets, b.allSubs...)
	b.mu.RUnlock()

	// Persist event
	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
			// Continue - event delivery is more important than persistence
		}
	}

	for _, ch := range targets {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}

	return nil
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeEntityType returns a channel for every event about one kind of
// entity, e.g. all import session events.
func (b *Bus) SubscribeEntityType(entityType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.entitySubs[entityType] = append(b.entitySubs[entityType], ch)
	return ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel. Unknown channels
// are ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if removeSub(b.subscribers, ch) || removeSub(b.entitySubs, ch) {
		return
	}
	for i, sub := range b.allSubs {
		if sub == ch {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			close(sub)
			return
		}
	}
}

func removeSub(subs map[string][]chan Event, ch <-chan Event) bool {
	for key, list := range subs {
		for i, sub := range list {
			if sub == ch {
				subs[key] = append(list[:i], list[i+1:]...)
				close(sub)
				return true
			}
		}
	}
	return false
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range []map[string][]chan Event{b.subscribers, b.entitySubs} {
		for _, list := range subs {
			for _, ch := range list {
				close(ch)
			}
		}
	}
	b.subscribers = nil
	b.entitySubs = nil

	for _, ch := range b.allSubs {
		close(ch)
	}
	b.allSubs = nil

	return nil
}
