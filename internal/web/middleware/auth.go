package middleware

import (
	"context"
	"net/http"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

// GetSession retrieves the authenticated session from the request context.
// Returns nil if no session is established.
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil for anonymous visitors.
func GetUser(ctx context.Context) *model.User {
	session := GetSession(ctx)
	if session == nil {
		return nil
	}
	return &session.User
}

// Auth returns middleware that requires authentication.
// Redirects to the login page if not authenticated.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromCookie(r, authService)
			if session == nil {
				http.Redirect(w, r, "/login?next="+r.URL.Path, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't
// require it
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromCookie(r, authService); session != nil {
				ctx := context.WithValue(r.Context(), sessionContextKey, session)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFromCookie(r *http.Request, authService *auth.Service) *auth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	session, err := authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}
