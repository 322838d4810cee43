package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

// ParsePagination reads page and limit from the query string. Missing values
// take the domain defaults; non-numeric, non-positive or oversized values are
// rejected with a validation error rather than clamped.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	var msgs []string
	page, ok := queryInt(q.Get("page"), domain.DefaultPage)
	if !ok {
		msgs = append(msgs, "page must be a positive integer")
	}
	limit, ok := queryInt(q.Get("limit"), domain.DefaultLimit)
	if !ok {
		msgs = append(msgs, "limit must be a positive integer")
	}
	if len(msgs) > 0 {
		return domain.PaginationParams{}, domain.NewValidationError(msgs...)
	}
	p := domain.PaginationParams{Page: page, Limit: limit}
	if err := p.Validate(); err != nil {
		return domain.PaginationParams{}, err
	}
	return p, nil
}

func queryInt(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
