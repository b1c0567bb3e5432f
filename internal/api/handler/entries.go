package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/api/request"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/entries"
	"github.com/itobot/scout/internal/services/stats"
)

// EntryHandler handles scouting entry endpoints
type EntryHandler struct {
	repo *entries.Repository
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(repo *entries.Repository) *EntryHandler {
	return &EntryHandler{
		repo: repo,
	}
}

// List handles GET /api/v1/entries[?q=term]
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	list, err := h.repo.Visible(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		list = stats.Search(list, q)
	}

	response.JSON(w, http.StatusOK, response.EntryList{Entries: response.EntriesFromModel(list)})
}

// Create handles POST /api/v1/entries
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateEntryRequest
	if !decode(w, r, &req) {
		return
	}

	id, err := h.repo.Create(r.Context(), req.Draft(user))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedEntry{ID: string(id)})
}

// Get handles GET /api/v1/entries/{id}
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.editable(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}

// Update handles PATCH /api/v1/entries/{id}
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UpdateEntryRequest
	if !decode(w, r, &req) {
		return
	}

	entry, err := h.editable(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	patch := req.Patch()
	// Re-attributing an entry to another scout is an admin correction
	if patch.ScoutName != nil && *patch.ScoutName != entry.ScoutName && !user.IsAdmin() {
		WriteError(w, model.ErrPermissionDenied)
		return
	}

	if err := h.repo.Update(r.Context(), entry.ID, patch); err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.repo.Get(r.Context(), entry.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(updated))
}

// Delete handles DELETE /api/v1/entries/{id}. Deleting a missing entry succeeds.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entry, err := h.editable(r)
	if errors.Is(err, model.ErrEntryNotFound) {
		response.NoContent(w)
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.repo.Delete(r.Context(), entry.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// editable loads the entry named in the path and checks the caller may touch it
func (h *EntryHandler) editable(r *http.Request) (*model.ScoutEntry, error) {
	user := middleware.MustGetUser(r.Context())
	id := model.EntryID(mux.Vars(r)["id"])

	entry, err := h.repo.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !entry.EditableBy(user) {
		return nil, model.ErrPermissionDenied
	}
	return entry, nil
}
