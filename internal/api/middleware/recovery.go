package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rz1986/gameportal/internal/api/apierr"
	"github.com/rz1986/gameportal/internal/middleware"
)

// Recovery creates panic recovery middleware that answers with a JSON
// INTERNAL_ERROR body instead of the web surface's HTML error page
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
