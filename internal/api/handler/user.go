package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rz1986/gameportal/internal/api/middleware"
	"github.com/rz1986/gameportal/internal/api/request"
	"github.com/rz1986/gameportal/internal/api/response"
	"github.com/rz1986/gameportal/internal/services/auth"
)

// UserHandler handles login, profile, and verification code endpoints
type UserHandler struct {
	authService *auth.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Identity == "" {
		WriteError(w, NewInvalidRequestError("identity is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Identity, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Me handles GET /api/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// SendCode handles POST /api/register/send_code. The code comes back in the
// response body instead of going out over SMS; the registration page shows
// it to the visitor.
func (h *UserHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req request.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Phone == "" {
		WriteError(w, NewInvalidRequestError("phone is required"))
		return
	}

	code, err := h.authService.SendVerificationCode(r.Context(), req.Phone)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SendCodeResponse{
		Phone: auth.NormalizePhone(req.Phone),
		Code:  code,
	})
}
