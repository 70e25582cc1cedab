package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/rz1986/gameportal/internal/api"
	"github.com/rz1986/gameportal/internal/factory"
	redisstore "github.com/rz1986/gameportal/internal/storage/redis"
	"github.com/rz1986/gameportal/internal/web"
	webmw "github.com/rz1986/gameportal/internal/web/middleware"
)

func main() {
	// Values from a .env file fill in whatever the environment leaves unset
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg := factory.Config{
		Logger:           logger,
		StorageType:      os.Getenv("STORAGE_TYPE"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		SessionStoreType: os.Getenv("SESSION_STORE"),
		Seed:             os.Getenv("SEED") != "false",
	}

	if cfg.SessionStoreType == factory.SessionStoreRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when SESSION_STORE=redis")
			os.Exit(1)
		}
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Storage.Close() }()

	// One per-IP budget shared by the web and API credential endpoints
	limiter := webmw.NewRateLimiter(rate.Limit(1), 5)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		CatalogService: app.CatalogService,
		RatingService:  app.RatingService,
		RateLimiter:    limiter,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		CatalogService:   app.CatalogService,
		RatingService:    app.RatingService,
		StaticDir:        findStaticDir(),
		LoginRateLimiter: limiter,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("port", port))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(mux, serverConfig, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	candidates := []string{
		"internal/web/static",
		"./internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return "internal/web/static"
}
