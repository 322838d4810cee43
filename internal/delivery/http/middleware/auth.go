package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/domain"
	"github.com/supriyo522/event-api-backend/internal/metrics"
)

type contextKey string

const subjectKey contextKey = "subject"

// SetSubject returns a context carrying the authenticated subject.
func SetSubject(ctx context.Context, s *domain.Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFromContext returns the authenticated subject from the context, if present.
func SubjectFromContext(ctx context.Context) (*domain.Subject, bool) {
	s, ok := ctx.Value(subjectKey).(*domain.Subject)
	return s, ok && s != nil
}

// Authenticator puts the access guard in front of handlers.
type Authenticator struct {
	Guard   domain.AccessGuard
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func NewAuthenticator(guard domain.AccessGuard, logger *slog.Logger, m *metrics.Metrics) *Authenticator {
	return &Authenticator{Guard: guard, Logger: logger, Metrics: m}
}

// Require returns a wrapper that reads the Bearer token, authorizes it for the
// given roles and stores the subject in the request context. With no roles any
// authenticated user passes. On failure it responds 401 or 403 and does not
// call next.
func (a *Authenticator) Require(roles ...domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				a.reject(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
				a.reject(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				a.reject(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			subject, err := a.Guard.Authorize(r.Context(), token, roles...)
			if err != nil {
				status, code := h.StatusForError(err)
				switch status {
				case http.StatusUnauthorized:
					a.reject(w, status, code, "invalid or expired token")
				case http.StatusForbidden:
					a.reject(w, status, code, "insufficient role")
				default:
					h.WriteServiceError(w, r, a.Logger, err)
				}
				return
			}
			next(w, r.WithContext(SetSubject(r.Context(), subject)))
		}
	}
}

func (a *Authenticator) reject(w http.ResponseWriter, status int, code, msg string) {
	a.Metrics.AuthRejected(code)
	h.WriteJSONError(w, status, code, msg)
}
