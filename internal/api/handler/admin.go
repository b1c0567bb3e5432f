package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/api/request"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/dependencies/clock"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/services/stats"
)

// ExportFilePrefix starts the name of every export download
const ExportFilePrefix = "scouting_data_"

// ExportFileName names an export taken at t, e.g. scouting_data_2024-03-15T09:00:00Z.json
func ExportFileName(t time.Time) string {
	return ExportFilePrefix + t.UTC().Format(time.RFC3339) + ".json"
}

// AdminHandler handles the admin-only endpoints. Routes are wrapped in RequireAdmin.
type AdminHandler struct {
	repo        *entries.Repository
	authService *auth.Service
	clock       clock.Clock
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(repo *entries.Repository, authService *auth.Service, clock clock.Clock) *AdminHandler {
	return &AdminHandler{
		repo:        repo,
		authService: authService,
		clock:       clock,
	}
}

// Entries handles GET /api/v1/admin/entries[?q=term]
func (h *AdminHandler) Entries(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		list = stats.Search(list, q)
	}

	response.JSON(w, http.StatusOK, response.EntryList{Entries: response.EntriesFromModel(list)})
}

// Summary handles GET /api/v1/admin/summary
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryFromStats(stats.Summarize(list)))
}

// Export handles GET /api/v1/admin/export
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	now := h.clock.Now()
	response.Attachment(w, ExportFileName(now), response.Export{
		ExportedAt:   now,
		TotalEntries: len(list),
		Entries:      response.EntriesFromModel(list),
	})
}

// Users handles GET /api/v1/admin/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context(), middleware.MustGetUser(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.UserList{Users: make([]response.User, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, response.UserFromModel(u))
	}
	response.JSON(w, http.StatusOK, out)
}

// SetRole handles PATCH /api/v1/admin/users/{uid}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req request.SetRoleRequest
	if !decode(w, r, &req) {
		return
	}

	uid := model.UserID(mux.Vars(r)["uid"])
	profile, err := h.authService.SetRole(r.Context(), middleware.MustGetUser(r.Context()), uid, model.Role(req.Role))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(profile))
}
