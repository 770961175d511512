package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType describes what happened to an entity
type EventType string

const (
	EventTypeCreated   EventType = "created"
	EventTypeUpdated   EventType = "updated"
	EventTypeDeleted   EventType = "deleted"
	EventTypeImported  EventType = "imported"
	EventTypeReset     EventType = "reset"
	EventTypeRecovered EventType = "recovered"
)

// EntityType is the kind of record an event is about
type EntityType string

const (
	EntityTypeEntry    EntityType = "entry"
	EntityTypeLoan     EntityType = "loan"
	EntityTypeGoal     EntityType = "goal"
	EntityTypeCategory EntityType = "category"
	EntityTypeDocument EntityType = "document"
)

// Event is a "state changed" signal pushed to subscribers.
// Format: { type, entity, payload, persisted, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "entry.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "entry"
	Payload   interface{} `json:"payload"`   // Entity data or a small summary
	Persisted bool        `json:"persisted"` // false when the change only lives in memory
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Persisted: true,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntryCreated creates an entry.created event
func EntryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEntry, payload)
}

// EntryUpdated creates an entry.updated event
func EntryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeEntry, payload)
}

// EntryDeleted creates an entry.deleted event
func EntryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeEntry, payload)
}

// LoanCreated creates a loan.created event
func LoanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeLoan, payload)
}

// LoanUpdated creates a loan.updated event
func LoanUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeLoan, payload)
}

// LoanDeleted creates a loan.deleted event
func LoanDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeLoan, payload)
}

// GoalCreated creates a goal.created event
func GoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeGoal, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, payload)
}

// CategoryCreated creates a category.created event
func CategoryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCategory, payload)
}

// CategoryDeleted creates a category.deleted event
func CategoryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeCategory, payload)
}

// DocumentImported creates a document.imported event
func DocumentImported(payload interface{}) Event {
	return NewEvent(EventTypeImported, EntityTypeDocument, payload)
}

// DocumentReset creates a document.reset event
func DocumentReset(payload interface{}) Event {
	return NewEvent(EventTypeReset, EntityTypeDocument, payload)
}

// DocumentRecovered creates a document.recovered event, sent after corrupt
// stored data was replaced with a fresh document
func DocumentRecovered(payload interface{}) Event {
	return NewEvent(EventTypeRecovered, EntityTypeDocument, payload)
}
