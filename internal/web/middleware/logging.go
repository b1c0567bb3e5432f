package middleware

import (
	"log/slog"
	"net/http"

	"github.com/itobot/scout/internal/middleware"
)

// Logging creates request logging for the web pages, tagged so page views
// can be told apart from API calls in the shared log
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("surface", "web")))
}
