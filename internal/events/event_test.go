package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseEvent_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := BaseEvent{
		Type:      "test.event",
		Entity:    "item",
		ID:        42,
		Timestamp: now,
	}

	assert.Equal(t, "test.event", e.EventType())
	assert.Equal(t, "item", e.EntityType())
	assert.Equal(t, int64(42), e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("import.started", "item", 123)

	assert.Equal(t, "import.started", e.EventType())
	assert.Equal(t, "item", e.EntityType())
	assert.Equal(t, int64(123), e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
}

func TestNewImportEvent(t *testing.T) {
	e := NewImportEvent(EventImportStarted)

	assert.Equal(t, EventImportStarted, e.EventType())
	assert.Equal(t, EntityImport, e.EntityType())
	assert.Zero(t, e.EntityID())
}
