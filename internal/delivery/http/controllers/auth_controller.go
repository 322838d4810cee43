package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "github.com/supriyo522/event-api-backend/internal/delivery/http/helpers"
	"github.com/supriyo522/event-api-backend/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"` // optional, defaults to "user"
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	s.Email = strings.TrimSpace(s.Email)
	s.Name = strings.TrimSpace(s.Name)
	s.Role = strings.ToLower(strings.TrimSpace(s.Role))
	return h.ValidateStruct(s)
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	l.Email = strings.TrimSpace(l.Email)
	return h.ValidateStruct(l)
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	User      *domain.Subject `json:"user"`
}

type AuthController struct {
	Logger           *slog.Logger
	Service          domain.UserService
	AllowAdminSignup bool
}

func NewAuthController(logger *slog.Logger, svc domain.UserService, allowAdminSignup bool) *AuthController {
	return &AuthController{
		Logger:           logger,
		Service:          svc,
		AllowAdminSignup: allowAdminSignup,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a new user with name, email and password. Optional role "user" or "admin" (defaults to "user"); admin signup is only accepted when enabled on the server. Password is stored hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (admin signup disabled)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == string(domain.RoleAdmin) && !c.AllowAdminSignup {
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "admin signup is disabled")
		return
	}
	user, err := c.Service.Create(r.Context(), domain.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT carrying the user id, email and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, code := h.StatusForError(err)
		if status == http.StatusUnauthorized {
			h.WriteJSONError(w, status, code, "invalid credentials")
			return
		}
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user.Subject()})
}
