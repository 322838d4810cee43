package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type attendeeService struct {
	eventRepo    domain.EventRepository
	attendeeRepo domain.AttendeeRepository
	now          func() time.Time
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(eventRepo domain.EventRepository, attendeeRepo domain.AttendeeRepository) domain.AttendeeService {
	return &attendeeService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
		now:          time.Now,
	}
}

// RegisterForEvent adds userID to the event's attendees. A second registration
// for the same pair fails with ErrAlreadyRegistered. No capacity limit applies.
func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reg := domain.NewEventRegistration(eventID, userID, s.now())
	if err := s.attendeeRepo.Add(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			return nil, err
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.ErrUserNotFound
		case errors.Is(err, domain.ErrNotFound):
			// Deleted between the lookup and the insert.
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	return reg, nil
}
