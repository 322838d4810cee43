package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/supriyo522/event-api-backend/internal/domain"

	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(name, email, password_hash, role, created_at, updated_at\)`).
					WithArgs("Alice", "alice@example.com", "hash", "user", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			u := domain.NewUser("Alice", "alice@example.com", "hash", domain.RoleUser, now, now)
			err = repo.Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, u.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mock     func(mock sqlmock.Sqlmock)
		wantUser *domain.User
		errIs    error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, email, password_hash, role, created_at, updated_at\s+FROM users\s+WHERE email = \$1`).
					WithArgs("alice@example.com").
					WillReturnRows(sqlmock.NewRows(userColumns).
						AddRow("user-uuid-1", "Alice", "alice@example.com", "hash", "admin", now, now))
			},
			wantUser: &domain.User{
				ID: "user-uuid-1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash",
				Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).
					WithArgs("alice@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			errIs: domain.ErrUserNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).WillReturnError(sql.ErrConnDone)
			},
			errIs: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			got, err := repo.GetByEmail(ctx, "alice@example.com")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantUser, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs("user-uuid-1").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("user-uuid-1", "Alice", "alice@example.com", "hash", "user", now, now))

		got, err := NewUserRepository(db).GetByID(ctx, "user-uuid-1")
		require.NoError(t, err)
		require.Equal(t, "user-uuid-1", got.ID)
		require.Equal(t, domain.RoleUser, got.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed uuid is not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
			WithArgs("not-a-uuid").
			WillReturnError(&pq.Error{Code: "22P02"})

		got, err := NewUserRepository(db).GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
