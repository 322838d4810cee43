package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

// fakeUserRepo implements domain.UserRepository in memory. Create enforces
// email uniqueness atomically, like the unique index does.
type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	seq       int
	getErr    error
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		f.seq++
		u.ID = fmt.Sprintf("user-%d", f.seq)
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeHasher implements domain.PasswordHasher with a reversible marker.
type fakeHasher struct {
	err error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err      error
	gotRole  domain.Role
	gotEmail string
}

func (f *fakeTokenIssuer) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gotRole = role
	f.gotEmail = email
	return "token-" + userID, nil
}

// fakeTokenVerifier maps known tokens to user IDs.
type fakeTokenVerifier struct {
	tokens map[string]string
	err    error
}

func (f *fakeTokenVerifier) Verify(token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
}

// fakeEventRepo implements domain.EventRepository in memory with the same
// filter and ordering rules as the SQL implementation.
type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[string]*domain.Event
	seq       map[string]int
	next      int
	createErr error
	listErr   error
	countErr  error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[string]*domain.Event),
		seq:    make(map[string]int),
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.next++
	e.ID = fmt.Sprintf("ev-%03d", f.next)
	cp := *e
	f.events[e.ID] = &cp
	f.seq[e.ID] = f.next
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	cp.Attendees = []domain.UserSummary{}
	return &cp, nil
}

func (f *fakeEventRepo) filtered(filter domain.EventFilter) []*domain.Event {
	var out []*domain.Event
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, e := range f.events {
		if search != "" && !strings.Contains(strings.ToLower(e.Title), search) {
			continue
		}
		if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
			continue
		}
		cp := *e
		cp.Attendees = []domain.UserSummary{}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return f.seq[out[i].ID] < f.seq[out[j].ID]
	})
	return out
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := f.filtered(filter)
	start := min(params.Offset(), len(all))
	end := min(start+params.Limit, len(all))
	return all[start:end], nil
}

func (f *fakeEventRepo) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.filtered(filter)), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, u domain.EventUpdate) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeAttendeeRepo implements domain.AttendeeRepository in memory. Add is an
// atomic append-if-absent.
type fakeAttendeeRepo struct {
	mu      sync.Mutex
	events  *fakeEventRepo
	byEvent map[string][]domain.UserSummary
	listErr error
}

func newFakeAttendeeRepo(events *fakeEventRepo) *fakeAttendeeRepo {
	return &fakeAttendeeRepo{events: events, byEvent: make(map[string][]domain.UserSummary)}
}

func (f *fakeAttendeeRepo) Add(ctx context.Context, reg *domain.EventRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events != nil {
		if _, err := f.events.GetByID(ctx, reg.EventID); err != nil {
			return err
		}
	}
	for _, u := range f.byEvent[reg.EventID] {
		if u.ID == reg.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	f.byEvent[reg.EventID] = append(f.byEvent[reg.EventID], domain.UserSummary{ID: reg.UserID})
	return nil
}

func (f *fakeAttendeeRepo) ListByEventIDs(ctx context.Context, ids []string) (map[string][]domain.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string][]domain.UserSummary)
	for _, id := range ids {
		if a, ok := f.byEvent[id]; ok {
			out[id] = append([]domain.UserSummary(nil), a...)
		}
	}
	return out, nil
}

// fakeBlobStore implements domain.BlobStore in memory.
type fakeBlobStore struct {
	mu       sync.Mutex
	stored   map[string][]byte
	deleted  []string
	storeErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{stored: make(map[string][]byte)}
}

func (f *fakeBlobStore) Store(ctx context.Context, r io.Reader, name, contentType string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := "/uploads/" + name
	f.stored[p] = buf.Bytes()
	return p, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, storedPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, storedPath)
	f.deleted = append(f.deleted, storedPath)
	return nil
}
