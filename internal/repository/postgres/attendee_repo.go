package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/supriyo522/event-api-backend/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

// NewAttendeeRepository returns a domain.AttendeeRepository implemented with Postgres.
func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

// Add inserts the registration. The (event_id, user_id) primary key makes the
// membership test and the append one atomic statement.
func (r *attendeeRepository) Add(ctx context.Context, reg *domain.EventRegistration) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, reg.EventID, reg.UserID, reg.CreatedAt)
	if err != nil {
		switch {
		case pqErrorCode(err) == pqForeignKeyViolation && pqConstraint(err) == "event_attendees_user_id_fkey":
			return domain.ErrUserNotFound
		case pqErrorCode(err) == pqForeignKeyViolation, isNoRow(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert attendee: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyRegistered
	}
	return nil
}

// ListByEventIDs loads the attendees of all given events in one query, in
// registration order. Events without attendees are absent from the map.
func (r *attendeeRepository) ListByEventIDs(ctx context.Context, eventIDs []string) (map[string][]domain.UserSummary, error) {
	out := make(map[string][]domain.UserSummary, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT ea.event_id, u.id, u.name, u.email
		FROM event_attendees ea
		JOIN users u ON u.id = ea.user_id
		WHERE ea.event_id = ANY($1::uuid[])
		ORDER BY ea.created_at ASC, u.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		if isNoRow(err) {
			return out, nil
		}
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var u domain.UserSummary
		if err := rows.Scan(&eventID, &u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out[eventID] = append(out[eventID], u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
