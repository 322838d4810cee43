package domain

import (
	"context"
	"fmt"
	"time"
)

// ErrAlreadyRegistered is returned when a user registers twice for the same event.
var ErrAlreadyRegistered = fmt.Errorf("already registered as attendee: %w", ErrConflict)

// EventRegistration represents an attendee's registration for an event.
// swagger:model EventRegistration
type EventRegistration struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEventRegistration creates a new EventRegistration.
func NewEventRegistration(eventID, userID string, createdAt time.Time) *EventRegistration {
	return &EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// AttendeeRepository stores the attendee set of each event.
type AttendeeRepository interface {
	// Add appends the user to the event's attendees. It returns ErrAlreadyRegistered
	// when the pair exists and ErrNotFound when the event does not.
	Add(ctx context.Context, reg *EventRegistration) error
	// ListByEventIDs returns the attendees of each given event, keyed by event ID.
	ListByEventIDs(ctx context.Context, eventIDs []string) (map[string][]UserSummary, error)
}

// AttendeeService defines attendee-facing operations such as event registration.
type AttendeeService interface {
	RegisterForEvent(ctx context.Context, eventID, userID string) (*EventRegistration, error)
}
