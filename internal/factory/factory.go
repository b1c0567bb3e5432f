package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/itobot/scout/internal/dependencies/clock"
	"github.com/itobot/scout/internal/dependencies/ids"
	"github.com/itobot/scout/internal/metrics"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/storage"
	"github.com/itobot/scout/internal/storage/memory"
	redisstorage "github.com/itobot/scout/internal/storage/redis"
	"github.com/itobot/scout/internal/storage/sqldb"
	"github.com/itobot/scout/internal/tba"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	AuthService *auth.Service
	Entries     *entries.Repository
	// TeamNames is nil when no TBA key is configured
	TeamNames *tba.Client
	Metrics   *metrics.Manager
}

// Close releases the storage connection
func (a *App) Close() error {
	return a.Storage.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// TBAConfig enables team-name lookups when AuthKey is set
	TBAConfig tba.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: memory, redis, sqlite or postgres.
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLConfig holds database settings (required for sqlite and postgres); the
	// driver is taken from StorageType
	SQLConfig *sqldb.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	store, err := openStorage(ctx, storageType, cfg)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	app := newWithDependencies(store, clk, ids.New(), metrics.NewManager(), cfg.AuthConfig, logger)
	app.StorageType = storageType

	if cfg.TBAConfig.AuthKey != "" {
		app.TeamNames = tba.New(cfg.TBAConfig, clk)
	} else {
		logger.Info("no TBA auth key configured, team name lookups disabled")
	}

	logger.Info("application wired", "storage", storageType)
	return app, nil
}

func openStorage(ctx context.Context, storageType string, cfg Config) (storage.Storage, error) {
	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite, StorageTypePostgres:
		if cfg.SQLConfig == nil {
			return nil, fmt.Errorf("SQLConfig required when StorageType is %s", storageType)
		}
		sqlCfg := *cfg.SQLConfig
		sqlCfg.Driver = sqldb.Driver(storageType)
		return sqldb.New(ctx, sqlCfg)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idGen ids.Generator,
	m *metrics.Manager,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	return &App{
		Storage:     store,
		StorageType: StorageTypeMemory,
		Clock:       clk,
		IDs:         idGen,
		AuthService: auth.New(store, clk, idGen, authCfg, logger),
		Entries:     entries.NewRepository(store, clk, idGen, m, logger),
		Metrics:     m,
	}
}
