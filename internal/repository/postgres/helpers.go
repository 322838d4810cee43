package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Postgres error codes mapped to domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidTextRepr     = "22P02"
)

// pqErrorCode returns the SQLSTATE of err, or "" if err is not a *pq.Error.
func pqErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// pqConstraint returns the violated constraint name of err, if any.
func pqConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

// isNoRow reports whether err means the looked-up row does not exist. A
// malformed UUID can never match a row, so it counts as missing too.
func isNoRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || pqErrorCode(err) == pqInvalidTextRepr
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with wildcards in s escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Open opens a Postgres handle and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
