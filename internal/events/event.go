package events

import "time"

// Event is anything the bus can publish and the log can persist.
// Concrete events embed BaseEvent and add their own JSON fields.
type Event interface {
	EventType() string
	EntityType() string
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent carries the envelope shared by every event. It is serialized
// inline with the concrete event's fields.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an envelope with the current time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{Type: eventType, Entity: entityType, ID: entityID, Timestamp: time.Now()}
}

// NewImportEvent stamps an envelope for an import session event. Sessions
// have no row of their own, so the entity ID is always 0.
func NewImportEvent(eventType string) BaseEvent {
	return NewBaseEvent(eventType, EntityImport, 0)
}
