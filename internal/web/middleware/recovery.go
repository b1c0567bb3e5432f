package middleware

import (
	"log/slog"
	"net/http"

	"github.com/itobot/scout/internal/middleware"
	"github.com/itobot/scout/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web pages
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("surface", "web")), webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	// Recovery runs outside Logging, so the id is only on the response header
	id := middleware.RequestID(r.Context())
	if id == "" {
		id = w.Header().Get(middleware.RequestIDHeader)
	}
	_ = pages.ServerError(id).Render(r.Context(), w)
}
