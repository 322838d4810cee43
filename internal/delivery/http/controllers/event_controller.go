package controllers

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/middleware"
	"github.com/supriyo522/event-api-backend/internal/domain"
	"github.com/supriyo522/event-api-backend/internal/metrics"
)

// DefaultMaxUploadBytes caps a create-event request body when MaxUploadBytes is unset.
const DefaultMaxUploadBytes int64 = 5 << 20

// bannerField is the multipart field carrying the event banner image.
const bannerField = "banner"

// CreateEventRequest is the body of POST /events, sent either as JSON or as
// multipart/form-data fields alongside an optional "banner" file.
type CreateEventRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Date        string `json:"date" form:"date" validate:"required"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Date = strings.TrimSpace(c.Date)
	return h.ValidateStruct(c)
}

// UpdateEventRequest is the body of PUT/PATCH /events/{eventID}. Omitted fields keep their value.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event `json:"data"`
	Error *h.APIError   `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  *domain.EventPage `json:"data"`
	Error *h.APIError       `json:"error"`
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

type EventController struct {
	Logger         *slog.Logger
	Service        domain.EventService
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

func NewEventController(logger *slog.Logger, svc domain.EventService, m *metrics.Metrics, maxUploadBytes int64) *EventController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &EventController{
		Logger:         logger,
		Service:        svc,
		Metrics:        m,
		MaxUploadBytes: maxUploadBytes,
	}
}

// eventIDFromPath returns the eventID path value, writing a 404 when it is not a UUID.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("eventID")
	if uuid.Validate(id) != nil {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
		return "", false
	}
	return id, true
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event dated strictly in the future. Accepts JSON or multipart/form-data; in multipart form an optional "banner" image (jpg, jpeg or png) may be attached. Admin only.
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest false "Event data (JSON)"
// @Param title formData string false "Event title (multipart)"
// @Param description formData string false "Event description (multipart)"
// @Param date formData string false "Event date, RFC 3339 or YYYY-MM-DD (multipart)"
// @Param banner formData file false "Banner image (multipart)"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error or invalid_date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 413 {object} helpers.APIResponse "error.code: payload_too_large"
// @Failure 415 {object} helpers.APIResponse "error.code: unsupported_media_type"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.MaxUploadBytes)

	var (
		req    CreateEventRequest
		banner *domain.Upload
	)
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && contentType != "" {
		mediaType = contentType
	}
	switch mediaType {
	case "multipart/form-data":
		req, banner, ok = c.readMultipart(w, r)
		if !ok {
			return
		}
		if banner != nil {
			if f, isFile := banner.Body.(multipart.File); isFile {
				defer f.Close()
			}
		}
		if errs := req.Validate(); len(errs) > 0 {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeValidation, strings.Join(errs, "; "))
			return
		}
	case "", "application/json":
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
	default:
		h.WriteJSONError(w, http.StatusUnsupportedMediaType, h.ErrCodeUnsupportedMediaType, "content type must be application/json or multipart/form-data")
		return
	}

	date, err := domain.ParseEventDate(req.Date)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeInvalidDate, "invalid date")
		return
	}

	event, err := c.Service.CreateEvent(r.Context(), domain.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
	}, subject.ID, banner)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Metrics.EventCreated()

	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// readMultipart parses the form fields and the optional banner file.
func (c *EventController) readMultipart(w http.ResponseWriter, r *http.Request) (CreateEventRequest, *domain.Upload, bool) {
	var req CreateEventRequest
	if err := r.ParseMultipartForm(c.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteJSONError(w, http.StatusRequestEntityTooLarge, h.ErrCodePayloadTooLarge, "request body too large")
			return req, nil, false
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "malformed multipart body")
		return req, nil, false
	}
	req.Title = r.FormValue("title")
	req.Description = r.FormValue("description")
	req.Date = r.FormValue("date")

	file, header, err := r.FormFile(bannerField)
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, true
	}
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "unreadable banner file")
		return req, nil, false
	}
	return req, uploadFromHeader(file, header), true
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) *domain.Upload {
	return &domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Paginated list of events ordered by date ascending. Optional case-insensitive title search and a lower date bound.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param search query string false "Case-insensitive substring of the title"
// @Param date query string false "Only events on or after this date"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error or invalid_date"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	pagination, err := h.ParsePagination(r)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	q := r.URL.Query()
	params := domain.ListEventsParams{
		EventFilter:      domain.EventFilter{Search: q.Get("search")},
		PaginationParams: pagination,
	}
	if raw := q.Get("date"); raw != "" {
		from, err := domain.ParseEventDate(raw)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeInvalidDate, "invalid date")
			return
		}
		params.DateFrom = &from
	}

	page, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, page)
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns one event with its creator and attendees.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially update title, description or date. A new date must be in the future. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, validation_error or invalid_date"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.EventUpdate{Title: req.Title, Description: req.Description}
	if req.Date != nil {
		date, err := domain.ParseEventDate(*req.Date)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeInvalidDate, "invalid date")
			return
		}
		update.Date = &date
	}

	event, err := c.Service.UpdateEvent(r.Context(), id, update)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its attendee list. Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.status: deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Metrics.EventDeleted()
	h.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}
