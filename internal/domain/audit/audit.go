// Package audit defines the audit trail port. Recording is best-effort:
// sinks run after the business transaction commits and must never fail
// the operation that produced the event.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"daftar/internal/core/id"
)

// Action is the audited operation type.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is one audit trail record.
type Event struct {
	EntityType string          `json:"entityType"`
	EntityID   id.ID           `json:"entityId"`
	Action     Action          `json:"action"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewEvent builds an event with the current timestamp.
func NewEvent(entityType string, entityID id.ID, action Action, changes any) Event {
	raw, _ := json.Marshal(changes)
	return Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    raw,
		OccurredAt: time.Now().UTC(),
	}
}

// Sink receives audit events. Implementations must be safe for
// concurrent use and swallow their own errors (log, don't propagate).
type Sink interface {
	Record(ctx context.Context, event Event)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}
