package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

// Error codes for API error responses. Each failure kind has its own stable code.
const (
	ErrCodeBadRequest           = "bad_request"
	ErrCodeValidation           = "validation_error"
	ErrCodeInvalidDate          = "invalid_date"
	ErrCodeUnauthorized         = "unauthorized"
	ErrCodeForbidden            = "forbidden"
	ErrCodeNotFound             = "not_found"
	ErrCodeConflict             = "conflict"
	ErrCodeUnsupportedMediaType = "unsupported_media_type"
	ErrCodePayloadTooLarge      = "payload_too_large"
	ErrCodeInternalError        = "internal_error"
	ErrCodeUnavailable          = "unavailable"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForError maps a service error to its HTTP status and error code.
// Errors outside the domain taxonomy map to 500.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, ErrCodeInvalidDate
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, ErrCodeUnsupportedMediaType
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteServiceError writes err using StatusForError. Internal errors are
// logged with the request path and method and hidden from the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusForError(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Messages) > 0 {
		WriteJSONError(w, status, code, strings.Join(verr.Messages, "; "))
		return
	}
	WriteJSONError(w, status, code, err.Error())
}
