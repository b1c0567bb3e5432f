package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/web/handler"
	"github.com/itobot/scout/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Entries     *entries.Repository
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the web routes on r
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	themeMiddleware := middleware.Theme()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	entryHandler := handler.NewEntryHandler(cfg.Entries, cfg.Logger)
	compareHandler := handler.NewCompareHandler(cfg.Entries, cfg.Logger)
	prefsHandler := handler.NewPrefsHandler()

	// Public routes (optional auth for showing the user in nav)
	public := r.NewRoute().Subrouter()
	public.Use(recoveryMiddleware, loggingMiddleware, flashMiddleware, themeMiddleware, optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	public.HandleFunc("/prefs/theme", prefsHandler.Theme).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(recoveryMiddleware, loggingMiddleware, flashMiddleware, themeMiddleware, authMiddleware)
	protected.HandleFunc("/entries", entryHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/compare", compareHandler.View).Methods(http.MethodGet)
}
