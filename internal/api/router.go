package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rz1986/gameportal/internal/api/handler"
	apimw "github.com/rz1986/gameportal/internal/api/middleware"
	basemw "github.com/rz1986/gameportal/internal/middleware"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	webmw "github.com/rz1986/gameportal/internal/web/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
	RatingService  *rating.Service

	// RateLimiter guards the credential and SMS endpoints. Shared with
	// the web router so one budget covers both surfaces.
	RateLimiter *webmw.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.CatalogService, cfg.RatingService)

	authMiddleware := apimw.Auth(cfg.AuthService)
	loggingMiddleware := basemw.Logging(cfg.Logger)
	recoveryMiddleware := apimw.Recovery(cfg.Logger)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public catalog routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{slug}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", gameHandler.Leaderboard).Methods(http.MethodGet)

	// Credential routes, rate limited per IP
	limited := api.NewRoute().Subrouter()
	if cfg.RateLimiter != nil {
		limited.Use(cfg.RateLimiter.Middleware)
	}
	limited.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	limited.HandleFunc("/register/send_code", userHandler.SendCode).Methods(http.MethodPost)

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", userHandler.Me).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
