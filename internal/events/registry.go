// internal/events/registry.go
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEventType is returned when decoding a type nobody registered.
var ErrUnknownEventType = errors.New("unknown event type")

// Registry turns persisted payloads back into concrete events.
type Registry struct {
	types map[string]func() Event
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]func() Event)}
}

// Register associates eventType with a constructor for its zero value.
func (r *Registry) Register(eventType string, newEvent func() Event) {
	r.types[eventType] = newEvent
}

// Decode rebuilds the concrete event stored in raw.
func (r *Registry) Decode(raw RawEvent) (Event, error) {
	newEvent, ok := r.types[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, raw.EventType)
	}
	e := newEvent()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", raw.EventType, err)
	}
	return e, nil
}

// DecodeAs decodes raw and asserts the result to T.
func DecodeAs[T Event](r *Registry, raw RawEvent) (T, error) {
	var zero T
	e, err := r.Decode(raw)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("event %d is %T, not %T", raw.ID, e, zero)
	}
	return t, nil
}

// DefaultRegistry knows every event musicd emits.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventImportStarted, func() Event { return &ImportStarted{} })
	r.Register(EventImportTaskChosen, func() Event { return &ImportTaskChosen{} })
	r.Register(EventImportCompleted, func() Event { return &ImportCompleted{} })
	r.Register(EventImportFailed, func() Event { return &ImportFailed{} })
	r.Register(EventItemAdded, func() Event { return &ItemAdded{} })
	r.Register(EventAlbumAdded, func() Event { return &AlbumAdded{} })
	r.Register(EventItemRemoved, func() Event { return &ItemRemoved{} })
	return r
}
