package handler

import (
	"log/slog"
	"net/http"

	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/services/stats"
	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/web/templates/pages"
)

// CompareHandler renders the team comparison page
type CompareHandler struct {
	repo   *entries.Repository
	logger *slog.Logger
}

// NewCompareHandler creates a new CompareHandler
func NewCompareHandler(repo *entries.Repository, logger *slog.Logger) *CompareHandler {
	return &CompareHandler{
		repo:   repo,
		logger: logger,
	}
}

// View renders cards for every ?team= that has visible entries
func (h *CompareHandler) View(w http.ResponseWriter, r *http.Request) {
	data := pages.CompareData{
		PageData: pageData(r, "Compare"),
		Selected: r.URL.Query()["team"],
	}

	visible, err := h.repo.Visible(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		h.logger.Warn("failed to load entries", "error", err)
		data.Flash = middleware.EntriesUnavailable()
	}

	data.Teams = stats.UniqueTeams(visible)
	data.Comparison = stats.Compare(visible, data.Selected)
	render(w, r, http.StatusOK, pages.Compare(data))
}
