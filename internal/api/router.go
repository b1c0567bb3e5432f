package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/api/handler"
	"github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/dependencies/clock"
	"github.com/itobot/scout/internal/metrics"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/services/entries"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Entries     *entries.Repository
	TeamNamer   handler.TeamNamer
	Metrics     *metrics.Manager
	Clock       clock.Clock
	// StorageType is reported by the health check
	StorageType string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the /api/v1 routes on r
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	entryHandler := handler.NewEntryHandler(cfg.Entries)
	teamHandler := handler.NewTeamHandler(cfg.Entries, cfg.TeamNamer, cfg.Metrics, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.Entries, cfg.AuthService, cfg.Clock)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(cfg.Metrics.Middleware)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Entry routes (all require auth)
	entryRoutes := api.PathPrefix("/entries").Subrouter()
	entryRoutes.Use(authMiddleware)
	entryRoutes.HandleFunc("", entryHandler.List).Methods(http.MethodGet)
	entryRoutes.HandleFunc("", entryHandler.Create).Methods(http.MethodPost)
	entryRoutes.HandleFunc("/{id}", entryHandler.Get).Methods(http.MethodGet)
	entryRoutes.HandleFunc("/{id}", entryHandler.Update).Methods(http.MethodPatch)
	entryRoutes.HandleFunc("/{id}", entryHandler.Delete).Methods(http.MethodDelete)

	// Team routes (all require auth); compare is registered before {number}
	teams := api.PathPrefix("/teams").Subrouter()
	teams.Use(authMiddleware)
	teams.HandleFunc("", teamHandler.List).Methods(http.MethodGet)
	teams.HandleFunc("/compare", teamHandler.Compare).Methods(http.MethodGet)
	teams.HandleFunc("/{number}/stats", teamHandler.Stats).Methods(http.MethodGet)
	teams.HandleFunc("/{number}/name", teamHandler.Name).Methods(http.MethodGet)

	// Admin routes: verified admin role required
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/entries", adminHandler.Entries).Methods(http.MethodGet)
	admin.HandleFunc("/summary", adminHandler.Summary).Methods(http.MethodGet)
	admin.HandleFunc("/export", adminHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/users", adminHandler.Users).Methods(http.MethodGet)
	admin.HandleFunc("/users/{uid}/role", adminHandler.SetRole).Methods(http.MethodPatch)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.StorageType)).Methods(http.MethodGet)
}

func healthHandler(storageType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: storageType})
	}
}
