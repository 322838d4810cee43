package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

const defaultTimeout = 10 * time.Second

type eventService struct {
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	userRepo       domain.UserRepository
	uploads        domain.UploadValidator
	blobs          domain.BlobStore
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	userRepo domain.UserRepository,
	uploads domain.UploadValidator,
	blobs domain.BlobStore,
	timeout time.Duration,
) domain.EventService {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &eventService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		userRepo:       userRepo,
		uploads:        uploads,
		blobs:          blobs,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// requireFuture enforces that an event date lies strictly after now.
func (s *eventService) requireFuture(date time.Time) error {
	if date.IsZero() || !date.After(s.now()) {
		return fmt.Errorf("%w: event date must be in the future", domain.ErrInvalidDate)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput, creatorID string, banner *domain.Upload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	var msgs []string
	if title == "" {
		msgs = append(msgs, "title is required")
	}
	if description == "" {
		msgs = append(msgs, "description is required")
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}
	if err := s.requireFuture(in.Date); err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get creator: %w", err)
	}

	name, err := s.uploads.Validate(banner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := domain.NewEvent(title, description, in.Date, creator.Summary(), now, now)

	if name != "" {
		stored, err := s.blobs.Store(ctx, banner.Body, name, banner.ContentType)
		if err != nil {
			return nil, fmt.Errorf("store banner: %w", err)
		}
		event.Banner = &stored
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if event.Banner != nil {
			// The row never existed, so nothing references the blob.
			_ = s.blobs.Delete(context.WithoutCancel(ctx), *event.Banner)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.attachAttendees(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns one page of the filtered listing. The page and the total
// are read concurrently; both use the same filter.
func (s *eventService) ListEvents(ctx context.Context, params domain.ListEventsParams) (*domain.EventPage, error) {
	if err := params.PaginationParams.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		events []*domain.Event
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.List(gctx, params.EventFilter, params.PaginationParams)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.eventRepo.Count(gctx, params.EventFilter)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.attachAttendees(ctx, events...); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return &domain.EventPage{
		Data:  events,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var msgs []string
	if update.Title != nil {
		t := strings.TrimSpace(*update.Title)
		if t == "" {
			msgs = append(msgs, "title must not be empty")
		}
		update.Title = &t
	}
	if update.Description != nil {
		d := strings.TrimSpace(*update.Description)
		if d == "" {
			msgs = append(msgs, "description must not be empty")
		}
		update.Description = &d
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}
	if update.Date != nil {
		if err := s.requireFuture(*update.Date); err != nil {
			return nil, err
		}
	}

	updated, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := s.attachAttendees(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEvent removes the event and its attendee list. Any admin may delete
// any event; the stored banner is left in place.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// attachAttendees fills the attendee lists of events with a single batch lookup.
func (s *eventService) attachAttendees(ctx context.Context, events ...*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	byEvent, err := s.attendeeRepo.ListByEventIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list attendees: %w", err)
	}
	for _, e := range events {
		if a := byEvent[e.ID]; a != nil {
			e.Attendees = a
		} else {
			e.Attendees = []domain.UserSummary{}
		}
	}
	return nil
}
