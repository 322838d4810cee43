package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/supriyo522/event-api-backend/internal/domain"

	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{
	"id", "title", "description", "date", "banner", "created_at", "updated_at",
	"creator_id", "creator_name", "creator_email",
}

var (
	evDate = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	evNow  = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	banner := "/uploads/banner-01J.png"

	tests := []struct {
		name    string
		banner  *string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name:   "success with banner",
			banner: &banner,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, description, date, created_by, banner, created_at, updated_at\)`).
					WithArgs("Go Meetup", "Talks", evDate, "user-1", banner, evNow, evNow).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name: "success without banner stores NULL",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("Go Meetup", "Talks", evDate, "user-1", nil, evNow, evNow).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-2"))
			},
			wantID: "ev-2",
		},
		{
			name: "unknown creator",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: true,
			errIs:   domain.ErrUserNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
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
			repo := NewEventRepository(db)
			e := domain.NewEvent("Go Meetup", "Talks", evDate, domain.UserSummary{ID: "user-1"}, evNow, evNow)
			e.Banner = tt.banner
			err = repo.Create(ctx, e)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, e.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		want  *domain.Event
		errIs error
	}{
		{
			name: "found with creator and no banner",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events e\s+JOIN users u ON u.id = e.created_by\s+WHERE e.id = \$1`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow("ev-1", "Go Meetup", "Talks", evDate, nil, evNow, evNow, "user-1", "Alice", "alice@example.com"))
			},
			want: &domain.Event{
				ID: "ev-1", Title: "Go Meetup", Description: "Talks", Date: evDate,
				CreatedBy: domain.UserSummary{ID: "user-1", Name: "Alice", Email: "alice@example.com"},
				Attendees: []domain.UserSummary{},
				CreatedAt: evNow, UpdatedAt: evNow,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events e`).WithArgs("ev-1").WillReturnError(sql.ErrNoRows)
			},
			errIs: domain.ErrNotFound,
		},
		{
			name: "malformed id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events e`).WithArgs("ev-1").WillReturnError(&pq.Error{Code: "22P02"})
			},
			errIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, "ev-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no filter pages by limit and offset in date order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`ORDER BY e.date ASC, e.created_at ASC, e.id ASC\s+LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 20).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow("ev-1", "A", "a", evDate, "/uploads/a.png", evNow, evNow, "user-1", "Alice", "alice@example.com").
				AddRow("ev-2", "B", "b", evDate, nil, evNow, evNow, "user-1", "Alice", "alice@example.com"))

		got, err := NewEventRepository(db).List(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 3, Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "ev-1", got[0].ID)
		require.NotNil(t, got[0].Banner)
		require.Equal(t, "/uploads/a.png", *got[0].Banner)
		require.Nil(t, got[1].Banner)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search escapes wildcards and combines with date filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`(?s)WHERE e.title ILIKE \$1 ESCAPE '\\' AND e.date >= \$2\s+ORDER BY .*LIMIT \$3 OFFSET \$4`).
			WithArgs(`% 50\%\_off %`, from, 5, 0).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		got, err := NewEventRepository(db).List(ctx,
			domain.EventFilter{Search: " 50%_off ", DateFrom: &from},
			domain.PaginationParams{Page: 1, Limit: 5})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank search applies no title filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`(?s)e.created_by\s+ORDER BY .*LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))

		_, err = NewEventRepository(db).List(ctx,
			domain.EventFilter{Search: "   "},
			domain.PaginationParams{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events e`).WillReturnError(sql.ErrConnDone)
		_, err = NewEventRepository(db).List(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 1, Limit: 10})
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestEventRepository_Count(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e WHERE e.title ILIKE \$1`).
		WithArgs("%meetup%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := NewEventRepository(db).Count(ctx, domain.EventFilter{Search: "meetup"})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	title := "Renamed"

	t.Run("partial update returns the new row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1, date = \$2\s+WHERE id = \$3\s+RETURNING \*`).
			WithArgs(title, evDate, "ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow("ev-1", title, "Talks", evDate, nil, evNow, evNow, "user-1", "Alice", "alice@example.com"))

		got, err := NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{Title: &title, Date: &evDate})
		require.NoError(t, err)
		require.Equal(t, title, got.Title)
		require.Equal(t, "Alice", got.CreatedBy.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update reads current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE e.id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow("ev-1", "Go Meetup", "Talks", evDate, nil, evNow, evNow, "user-1", "Alice", "alice@example.com"))

		got, err := NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "Go Meetup", got.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).WillReturnError(sql.ErrNoRows)

		got, err := NewEventRepository(db).Update(ctx, "ev-1", domain.EventUpdate{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WillReturnError(errors.New("boom"))
			},
			wantErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, "ev-1")
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, domain.ErrNotFound):
				require.ErrorIs(t, err, domain.ErrNotFound)
			default:
				require.EqualError(t, err, tt.wantErr.Error())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
