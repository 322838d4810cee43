package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository implemented with Postgres.
// Returned events carry their creator but an empty attendee list.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `e.id, e.title, e.description, e.date, e.banner, e.created_at, e.updated_at, u.id, u.name, u.email`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{Attendees: []domain.UserSummary{}}
	var banner sql.NullString
	err := s.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &banner, &e.CreatedAt, &e.UpdatedAt,
		&e.CreatedBy.ID, &e.CreatedBy.Name, &e.CreatedBy.Email,
	)
	if err != nil {
		return nil, err
	}
	if banner.Valid {
		e.Banner = &banner.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, created_by, banner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var banner sql.NullString
	if e.Banner != nil {
		banner = sql.NullString{String: *e.Banner, Valid: true}
	}
	err := r.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.Date, e.CreatedBy.ID, banner, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		if pqErrorCode(err) == pqForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users u ON u.id = e.created_by
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// eventWhere renders filter as a WHERE clause whose placeholders start at $1.
func eventWhere(filter domain.EventFilter) (string, []any) {
	var clauses []string
	var args []any
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, containsPattern(filter.Search))
		clauses = append(clauses, fmt.Sprintf(`e.title ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("e.date >= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, error) {
	where, args := eventWhere(filter)
	n := len(args)
	args = append(args, params.Limit, params.Offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		JOIN users u ON u.id = e.created_by
		%s
		ORDER BY e.date ASC, e.created_at ASC, e.id ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, n+1, n+2)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	where, args := eventWhere(filter)
	query := `SELECT COUNT(*) FROM events e ` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Update applies the non-nil fields of update in one statement and returns the
// resulting row. With nothing to change it returns the current row.
func (r *eventRepository) Update(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if update.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *update.Title)
		n++
	}
	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *update.Description)
		n++
	}
	if update.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *update.Date)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		WITH e AS (
			UPDATE events SET %s
			WHERE id = $%d
			RETURNING *
		)
		SELECT %s
		FROM e
		JOIN users u ON u.id = e.created_by
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNoRow(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes the event; its attendee rows go with it via ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if isNoRow(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
