package domain

import (
	"context"
	"io"
	"strings"
	"time"
)

// Event represents a scheduled event that users can register for.
// swagger:model Event
type Event struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	CreatedBy   UserSummary   `json:"created_by"`
	Attendees   []UserSummary `json:"attendees"`
	Banner      *string       `json:"banner"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewEvent returns a new Event with no attendees. ID is typically set by the repository on create.
func NewEvent(title, description string, date time.Time, createdBy UserSummary, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		CreatedBy:   createdBy,
		Attendees:   []UserSummary{},
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// eventDateLayouts are accepted in order; RFC 3339 first.
var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseEventDate parses a date sent by a client. Values without a zone are UTC.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// CreateEventInput holds the client-supplied fields of a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
}

// EventUpdate lists the fields to change; nil fields are left untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
}

// Empty reports whether no field is set.
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Date == nil
}

// EventFilter narrows event listings. Zero values mean no constraint.
type EventFilter struct {
	Search   string
	DateFrom *time.Time
}

// ListEventsParams combines filtering and pagination for ListEvents.
type ListEventsParams struct {
	EventFilter
	PaginationParams
}

// EventPage is a window of a filtered event listing.
// swagger:model EventPage
type EventPage struct {
	Data  []*Event `json:"data"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
	Update(ctx context.Context, id string, update EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// Upload is a binary attachment as received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadValidator checks an upload's declared type and derives its storage name.
// A nil upload yields an empty name and no error.
type UploadValidator interface {
	Validate(file *Upload) (storageName string, err error)
}

// BlobStore persists uploaded bytes under a derived name.
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, name, contentType string) (storedPath string, err error)
	Delete(ctx context.Context, storedPath string) error
}

// EventService defines the business logic for the event catalog.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput, creatorID string, banner *Upload) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, params ListEventsParams) (*EventPage, error)
	UpdateEvent(ctx context.Context, id string, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
