package handler

import (
	"log/slog"
	"net/http"

	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/services/stats"
	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/web/templates/pages"
)

// EntryHandler renders the entry list
type EntryHandler struct {
	repo   *entries.Repository
	logger *slog.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(repo *entries.Repository, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		repo:   repo,
		logger: logger,
	}
}

// List renders the entries visible to the user, filtered by ?q=
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	data := pages.EntriesData{
		PageData: pageData(r, "Entries"),
		Query:    r.URL.Query().Get("q"),
	}

	visible, err := h.repo.Visible(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		// The page still renders, with an empty list and a banner
		h.logger.Warn("failed to load entries", "error", err)
		data.Flash = middleware.EntriesUnavailable()
	}

	data.Total = len(visible)
	data.Entries = stats.Search(visible, data.Query)
	render(w, r, http.StatusOK, pages.Entries(data))
}
