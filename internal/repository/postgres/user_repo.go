package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

// Create inserts u and sets its ID. The unique index on email decides which of
// two concurrent signups with the same address wins.
func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if pqErrorCode(err) == pqUniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	u := &domain.User{}
	var role string
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
