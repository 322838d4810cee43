package controllers

import (
	"log/slog"
	"net/http"

	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/middleware"
	"github.com/supriyo522/event-api-backend/internal/domain"
)

// GetMeSuccessResponse is the success response envelope for GET /users/me (200).
type GetMeSuccessResponse struct {
	Data  *domain.Subject `json:"data"`
	Error *h.APIError     `json:"error"`
}

type UserController struct {
	Logger *slog.Logger
}

func NewUserController(logger *slog.Logger) *UserController {
	return &UserController{Logger: logger}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the authenticated subject: id, email, role and name.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.GetMeSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, subject)
}
