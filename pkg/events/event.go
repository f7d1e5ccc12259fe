package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "TICKET_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for one-off events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TicketCreated is published when a support ticket is finalized, so external
// dashboard consumers can react without polling the database.
func TicketCreated(code, userID, department, urgency string, createdAt time.Time) Event {
	return BaseEvent{
		Type: "TICKET_CREATED",
		Data: map[string]interface{}{
			"code":       code,
			"user_id":    userID,
			"department": department,
			"urgency":    urgency,
		},
		OccurredAt: createdAt,
	}
}
