package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/supriyo522/event-api-backend/internal/delivery/http/controllers"
	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/middleware"
	"github.com/supriyo522/event-api-backend/internal/domain"
	"github.com/supriyo522/event-api-backend/internal/metrics"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig carries everything NewRouter wires into the mux.
type RouterConfig struct {
	Logger        *slog.Logger
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Events        *controllers.EventController
	Attendees     *controllers.AttendeeController
	Authenticator *middleware.Authenticator
	Metrics       *metrics.Metrics
	Health        Pinger
	// UploadsDir is served under /uploads/ when set.
	UploadsDir     string
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and the
// middleware chain (CORS, request logging, metrics).
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	anyUser := cfg.Authenticator.Require()
	adminOnly := cfg.Authenticator.Require(domain.RoleAdmin)

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", anyUser(cfg.Users.GetMe))

	// Events
	mux.HandleFunc("GET /events", cfg.Events.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetEvent)
	mux.HandleFunc("POST /events", adminOnly(cfg.Events.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", adminOnly(cfg.Events.UpdateEvent))
	mux.HandleFunc("PATCH /events/{eventID}", adminOnly(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", adminOnly(cfg.Events.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/register", anyUser(cfg.Attendees.RegisterForEvent))

	if cfg.UploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	mux.HandleFunc("GET /healthz", healthHandler(cfg.Health))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = middleware.Metrics(cfg.Metrics, mux)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return handler
}

type healthResponse struct {
	Status string `json:"status"`
}

// healthHandler godoc
// @Summary Liveness and database check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "error.code: unavailable"
// @Router /healthz [get]
func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				h.WriteJSONError(w, http.StatusServiceUnavailable, h.ErrCodeUnavailable, "database unreachable")
				return
			}
		}
		h.WriteJSONSuccess(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
