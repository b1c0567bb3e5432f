package middleware

import (
	"log/slog"
	"net/http"

	"github.com/itobot/scout/internal/middleware"
)

// Logging logs API requests with the shared request logger
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
