package domain

import (
	"fmt"
	"math"
)

// Pagination defaults shared by services and HTTP helpers.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * Limit.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Validate rejects non-positive values, limits above MaxLimit and pages whose
// offset would not fit in an int.
func (p PaginationParams) Validate() error {
	var msgs []string
	if p.Page < 1 {
		msgs = append(msgs, "page must be a positive integer")
	}
	if p.Limit < 1 {
		msgs = append(msgs, "limit must be a positive integer")
	} else if p.Limit > MaxLimit {
		msgs = append(msgs, fmt.Sprintf("limit must not exceed %d", MaxLimit))
	} else if p.Page > math.MaxInt/p.Limit {
		msgs = append(msgs, "page is out of range")
	}
	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}
