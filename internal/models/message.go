package models

import (
	"encoding/json"
	"time"
)

// EventKind is the mutation carried by a change event
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Entity names a table whose changes are broadcast
type Entity string

const (
	EntityDish  Entity = "dishes"
	EntityOrder Entity = "orders"
)

// ChangeEvent is a realtime change notification for dishes and orders.
// Payload carries the full row for inserts and updates and is empty for
// deletes; ID is always set. Consumers apply events in arrival order,
// last write wins.
type ChangeEvent struct {
	Entity    Entity          `json:"entity"`
	Kind      EventKind       `json:"kind"`
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// StatusUpdateMessage is broadcast when an admin moves an order through its
// status progression.
type StatusUpdateMessage struct {
	OrderID   string    `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent builds a ChangeEvent, marshalling the payload row. A nil
// payload produces a delete-style event with only the id.
func NewChangeEvent(entity Entity, kind EventKind, id string, payload interface{}) (*ChangeEvent, error) {
	ev := &ChangeEvent{
		Entity:    entity,
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		ev.Payload = body
	}
	return ev, nil
}

// NewStatusUpdateMessage creates a StatusUpdateMessage for order status changes
func NewStatusUpdateMessage(orderID, oldStatus, newStatus, changedBy string) *StatusUpdateMessage {
	return &StatusUpdateMessage{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Timestamp: time.Now().UTC(),
	}
}
