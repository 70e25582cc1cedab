package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/web/handler"
	"github.com/rz1986/gameportal/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
	RatingService  *rating.Service
	StaticDir      string // Path to static files directory

	// LoginRateLimiter guards the credential and SMS endpoints. The
	// default allows 1 request/sec with a burst of 5 per IP.
	LoginRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	limiter := cfg.LoginRateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(rate.Limit(1), 5)
	}

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	homeHandler := handler.NewHomeHandler(cfg.CatalogService, cfg.RatingService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.CatalogService, cfg.RatingService)
	historyHandler := handler.NewHistoryHandler(cfg.RatingService)
	adminHandler := handler.NewAdminHandler(cfg.CatalogService)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing user info in nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard", homeHandler.Leaderboard).Methods(http.MethodGet)
	public.HandleFunc("/games/{slug}", gameHandler.Detail).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)

	// Credential submissions are rate limited per IP
	limited := r.NewRoute().Subrouter()
	limited.Use(limiter.Middleware)
	limited.Use(flashMiddleware)
	limited.Use(optionalAuthMiddleware)
	limited.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	limited.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/history", historyHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/games/{slug}/play", gameHandler.Play).Methods(http.MethodGet)
	protected.HandleFunc("/games/{slug}/rate", gameHandler.Rate).Methods(http.MethodPost)
	protected.HandleFunc("/admin/games", adminHandler.NewGamePage).Methods(http.MethodGet)
	protected.HandleFunc("/admin/games", adminHandler.CreateGame).Methods(http.MethodPost)

	return r
}
