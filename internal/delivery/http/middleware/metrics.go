package middleware

import (
	"net/http"
	"time"

	"github.com/supriyo522/event-api-backend/internal/metrics"
)

// Metrics records request count and latency per matched route. It must wrap
// the ServeMux directly so that r.Pattern is set once the mux has routed.
func Metrics(m *metrics.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(r.Method, route, wrapped.status, time.Since(start))
	})
}
