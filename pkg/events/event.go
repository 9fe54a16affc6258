package events

import (
	"context"
	"time"
)

const (
	EncounterCreated   = "ENCOUNTER_CREATED"
	EncounterFinalized = "ENCOUNTER_FINALIZED"
	EncounterDeleted   = "ENCOUNTER_DELETED"
)

// Event is anything the bus can carry. Implementations marshal to JSON as-is.
type Event interface {
	EventType() string
	// Key identifies one occurrence so brokers can drop redeliveries.
	Key() string
	Timestamp() time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EncounterEvent carries identifiers only. Note content never leaves the
// database through the bus.
type EncounterEvent struct {
	Type         string    `json:"type"`
	EncounterID  string    `json:"encounter_id"`
	UserID       string    `json:"user_id"`
	TemplateType string    `json:"template_type"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewEncounterEvent(eventType, encounterID, userID, templateType string) EncounterEvent {
	return EncounterEvent{
		Type:         eventType,
		EncounterID:  encounterID,
		UserID:       userID,
		TemplateType: templateType,
		OccurredAt:   time.Now().UTC(),
	}
}

func (e EncounterEvent) EventType() string    { return e.Type }
func (e EncounterEvent) Timestamp() time.Time { return e.OccurredAt }

func (e EncounterEvent) Key() string {
	return e.Type + ":" + e.EncounterID + ":" + e.OccurredAt.Format(time.RFC3339Nano)
}
