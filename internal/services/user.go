package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

const minPasswordLen = 6

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo    domain.UserRepository
	hasher      domain.PasswordHasher
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
	now         func() time.Time
}

// NewUserService creates a UserService with the given repository and auth ports.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.UserService {
	return &userService{
		userRepo:    userRepo,
		hasher:      hasher,
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}
}

// Create validates in, hashes the password and stores the user. Email
// comparison is case-sensitive; the address is only trimmed.
func (s *userService) Create(ctx context.Context, in domain.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	var msgs []string
	if name == "" {
		msgs = append(msgs, "name is required")
	}
	if !emailRegexp.MatchString(email) {
		msgs = append(msgs, "email must be a valid email address")
	}
	if len(in.Password) < minPasswordLen {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	role, err := domain.ParseRole(strings.TrimSpace(strings.ToLower(in.Role)))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			msgs = append(msgs, verr.Messages...)
		}
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs...)
	}

	// Fast path for the common case; the unique index still decides races.
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.NewUser(name, email, hash, role, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token. Unknown email and
// wrong password fail the same way.
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Role, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
