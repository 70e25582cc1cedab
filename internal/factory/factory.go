package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/rz1986/gameportal/internal/bootstrap"
	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/dependencies/random"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/services/rating"
	"github.com/rz1986/gameportal/internal/storage"
	"github.com/rz1986/gameportal/internal/storage/memory"
	redisstore "github.com/rz1986/gameportal/internal/storage/redis"
	"github.com/rz1986/gameportal/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeSQLite = "sqlite"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage  storage.Storage
	Sessions storage.SessionStore

	Clock  clock.Clock
	Random random.Random

	AuthService    *auth.Service
	CatalogService *catalog.Service
	RatingService  *rating.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; defaults to a no-op logger)
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "sqlite")
	StorageType string
	// SQLitePath is the database file path (required for sqlite storage)
	SQLitePath string
	// SessionStoreType selects the session backend ("memory" or "redis")
	SessionStoreType string
	// RedisConfig holds Redis settings (required for the redis session store)
	RedisConfig *redisstore.Config
	// AuthConfig holds auth settings (optional; defaults to auth.DefaultConfig())
	AuthConfig auth.Config
	// Seed controls whether the admin account and example games are created
	Seed bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'sqlite'")
	}

	var sessions storage.SessionStore
	switch cfg.SessionStoreType {
	case "", SessionStoreMemory:
		sessions = memory.NewSessionStore()
	case SessionStoreRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionStoreType is redis")
		}
		redisSessions, err := redisstore.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		sessions = redisSessions
	default:
		return nil, errors.New("invalid SessionStoreType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, sessions, clk, rnd, authCfg, logger)

	if cfg.Seed {
		if err := bootstrap.Seed(context.Background(), store, clk, logger); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, sessions storage.SessionStore, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, sessions, clk, rnd, authCfg, logger)
	catalogService := catalog.New(store, authService, clk, logger)
	ratingService := rating.New(store, authService, clk, logger)

	return &App{
		Storage:        store,
		Sessions:       sessions,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		CatalogService: catalogService,
		RatingService:  ratingService,
	}
}
