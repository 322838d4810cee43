package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/middleware"
	"github.com/supriyo522/event-api-backend/internal/domain"
	"github.com/supriyo522/event-api-backend/internal/metrics"
)

// Registration outcomes recorded in metrics.
const (
	outcomeRegistered = "registered"
	outcomeDuplicate  = "duplicate"
	outcomeNotFound   = "not_found"
	outcomeError      = "error"
)

// RegisterForEventSuccessResponse is the success response envelope for POST /events/{eventID}/register (201).
type RegisterForEventSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *h.APIError               `json:"error"`
}

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.AttendeeService
	Metrics *metrics.Metrics
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService, m *metrics.Metrics) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
		Metrics: m,
	}
}

// RegisterForEvent godoc
// @Summary Register for an event
// @Description Adds the authenticated user to the event's attendees. Registering twice is a conflict.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.RegisterForEventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		c.Metrics.Registration(outcomeNotFound)
		return
	}

	reg, err := c.Service.RegisterForEvent(r.Context(), eventID, subject.ID)
	if err != nil {
		c.Metrics.Registration(registrationOutcome(err))
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Metrics.Registration(outcomeRegistered)

	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return outcomeDuplicate
	case errors.Is(err, domain.ErrNotFound):
		return outcomeNotFound
	default:
		return outcomeError
	}
}
