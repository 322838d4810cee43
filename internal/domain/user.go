package domain

import (
	"context"
	"fmt"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrDuplicateEmail = fmt.Errorf("email already in use: %w", ErrConflict)
)

// Role is a coarse authorization tier.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole maps an optional role string to a Role. Empty means RoleUser.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", NewValidationError(fmt.Sprintf("role must be %q or %q", RoleUser, RoleAdmin))
	}
	return r, nil
}

// User represents a registered user. PasswordHash never leaves the process.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(name, email, passwordHash string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Subject is the authenticated-subject view handed out by the access guard.
// swagger:model Subject
type Subject struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// Subject returns the outward projection of u.
func (u *User) Subject() *Subject {
	return &Subject{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// UserSummary is how users are embedded in event payloads.
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the embedded projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PasswordHasher is a slow, salted one-way function for credentials.
type PasswordHasher interface {
	Hash(password string) (hash string, err error)
	Compare(hash, password string) error
}

// TokenIssuer issues bearer tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// CreateUserInput holds the fields accepted when creating a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService owns user records and credential checks.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AccessGuard authenticates a bearer token and checks the subject's role.
// An empty roles list admits any authenticated user.
type AccessGuard interface {
	Authorize(ctx context.Context, token string, roles ...Role) (*Subject, error)
}
