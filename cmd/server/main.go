package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/api"
	"github.com/itobot/scout/internal/api/handler"
	"github.com/itobot/scout/internal/config"
	"github.com/itobot/scout/internal/factory"
	"github.com/itobot/scout/internal/services/auth"
	redisstorage "github.com/itobot/scout/internal/storage/redis"
	"github.com/itobot/scout/internal/storage/sqldb"
	"github.com/itobot/scout/internal/tba"
	"github.com/itobot/scout/internal/web"
)

// revocationSweep is how often logged-out tokens past their expiry are forgotten
const revocationSweep = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if cfg.JWTSecret == "" {
		logger.Warn("no jwt_secret configured, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// A nil *tba.Client must not reach the router as a non-nil interface
	var namer handler.TeamNamer
	if app.TeamNames != nil {
		namer = app.TeamNames
	}

	r := mux.NewRouter()
	api.Mount(r, api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Entries:     app.Entries,
		TeamNamer:   namer,
		Metrics:     app.Metrics,
		Clock:       app.Clock,
		StorageType: app.StorageType,
	})
	r.Handle("/metrics", app.Metrics.Handler()).Methods(http.MethodGet)
	web.Mount(r, web.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Entries:     app.Entries,
	})

	// Create server
	server := api.NewServer(r, api.ServerConfig{
		Addr:            cfg.Addr,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	go sweepRevocations(ctx, app.AuthService)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", cfg.Addr), slog.String("storage", app.StorageType))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	authCfg := auth.DefaultConfig()
	authCfg.Secret = cfg.JWTSecret
	authCfg.Issuer = cfg.JWTIssuer
	authCfg.SessionDuration = cfg.SessionDuration
	authCfg.AdminEmails = cfg.AdminEmails

	tbaCfg := tba.DefaultConfig()
	tbaCfg.BaseURL = cfg.TBABaseURL
	tbaCfg.AuthKey = cfg.TBAAuthKey
	tbaCfg.Timeout = cfg.TBATimeout
	tbaCfg.CacheTTL = cfg.TBACacheTTL

	fc := factory.Config{
		AuthConfig:  authCfg,
		TBAConfig:   tbaCfg,
		Logger:      logger,
		StorageType: cfg.StorageType,
	}

	switch cfg.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	case config.StorageSQLite:
		sqlCfg := sqldb.DefaultConfig()
		sqlCfg.DSN = cfg.SQLitePath
		fc.SQLConfig = &sqlCfg
	case config.StoragePostgres:
		sqlCfg := sqldb.DefaultConfig()
		sqlCfg.DSN = cfg.PostgresURL
		fc.SQLConfig = &sqlCfg
	}

	return fc
}

func sweepRevocations(ctx context.Context, authService *auth.Service) {
	ticker := time.NewTicker(revocationSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			authService.CleanExpiredRevocations()
		}
	}
}
