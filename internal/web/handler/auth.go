package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/web/form"
	"github.com/rz1986/gameportal/internal/web/middleware"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
	"github.com/rz1986/gameportal/internal/web/templates/pages"
)

// AuthHandler handles login, registration, and logout
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: layout.PageData{
			Title: "Login",
			Flash: middleware.GetFlash(r.Context()),
		},
		Next: r.URL.Query().Get("next"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Login handles login form submission. The identity field accepts either a
// username or a phone number.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, pages.LoginData{Error: "Invalid form data"})
		return
	}

	f, fieldErrs := form.ParseLogin(r)
	if fieldErrs.Any() {
		h.renderLogin(w, r, pages.LoginData{
			Identity: f.Identity,
			Error:    "Username and password are required",
			Next:     f.Next,
		})
		return
	}

	session, err := h.authService.Login(r.Context(), f.Identity, f.Password)
	if err != nil {
		h.renderLogin(w, r, pages.LoginData{
			Identity: f.Identity,
			Error:    "Invalid username or password",
			Next:     f.Next,
		})
		return
	}

	h.setSessionCookie(w, session)
	middleware.SetFlash(w, "success", "Welcome back, "+session.User.Username+"!")

	if f.Next != "" && strings.HasPrefix(f.Next, "/") {
		http.Redirect(w, r, f.Next, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := pages.RegisterData{
		PageData: layout.PageData{
			Title: "Register",
			Flash: middleware.GetFlash(r.Context()),
		},
		FieldErrors: make(map[string]string),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Register(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegister(w, r, pages.RegisterData{Error: "Invalid form data"})
		return
	}

	f, fieldErrs := form.ParseRegister(r)
	if fieldErrs.Any() {
		h.renderRegister(w, r, pages.RegisterData{
			Username:    f.Username,
			Phone:       f.Phone,
			FieldErrors: fieldErrs,
		})
		return
	}

	user, err := h.authService.Register(r.Context(), f.Username, f.Phone, f.Password, f.Code)
	if err != nil {
		data := pages.RegisterData{
			Username:    f.Username,
			Phone:       f.Phone,
			FieldErrors: make(map[string]string),
		}
		switch {
		case errors.Is(err, model.ErrDuplicateIdentity):
			data.Error = "That username or phone number is already registered"
		case errors.Is(err, model.ErrInvalidCode):
			data.FieldErrors["code"] = "Verification code is wrong or expired"
		case errors.Is(err, model.ErrInvalidInput):
			data.Error = userMessage(err)
		default:
			data.Error = "Registration failed, please try again"
		}
		h.renderRegister(w, r, data)
		return
	}

	middleware.SetFlash(w, "success", "Account created! Log in as "+user.Username+" to start playing.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout ends the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		// Best effort; an already-gone session still logs the user out.
		_ = h.authService.Logout(r.Context(), session.Token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie keeps the cookie alive exactly as long as the server-side
// session it carries.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresAt.Sub(session.CreatedAt) / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data pages.LoginData) {
	data.Title = "Login"
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Login(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, data pages.RegisterData) {
	if data.FieldErrors == nil {
		data.FieldErrors = make(map[string]string)
	}
	data.Title = "Register"
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Register(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// userMessage strips the sentinel prefix from wrapped input errors so the
// page shows only the human-readable part.
func userMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, model.ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}
