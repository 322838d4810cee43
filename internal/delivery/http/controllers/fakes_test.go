package controllers

import (
	"context"
	"io"
	"log/slog"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeUserService struct {
	createFn func(ctx context.Context, in domain.CreateUserInput) (*domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (f *fakeUserService) Create(ctx context.Context, in domain.CreateUserInput) (*domain.User, error) {
	return f.createFn(ctx, in)
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUserService) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserService) GetByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

type createEventCall struct {
	in        domain.CreateEventInput
	creatorID string
	banner    *domain.Upload
	bannerRaw []byte
}

type fakeEventService struct {
	created []createEventCall
	listed  []domain.ListEventsParams
	updates []domain.EventUpdate
	deleted []string
	event   *domain.Event
	page    *domain.EventPage
	err     error
}

func (f *fakeEventService) CreateEvent(_ context.Context, in domain.CreateEventInput, creatorID string, banner *domain.Upload) (*domain.Event, error) {
	call := createEventCall{in: in, creatorID: creatorID, banner: banner}
	if banner != nil {
		call.bannerRaw, _ = io.ReadAll(banner.Body)
	}
	f.created = append(f.created, call)
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListEvents(_ context.Context, params domain.ListEventsParams) (*domain.EventPage, error) {
	f.listed = append(f.listed, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	f.updates = append(f.updates, update)
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeAttendeeService struct {
	registerFn func(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error)
}

func (f *fakeAttendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	return f.registerFn(ctx, eventID, userID)
}
