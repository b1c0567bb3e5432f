package entries

import (
	"context"
	"errors"
	"log/slog"

	"github.com/itobot/scout/internal/dependencies/clock"
	"github.com/itobot/scout/internal/dependencies/ids"
	"github.com/itobot/scout/internal/metrics"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

// Repository is the single gateway between callers and the entry store.
// Store failures come back as *model.PersistenceError; validation happens before any I/O.
type Repository struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewRepository creates a new entry Repository
func NewRepository(
	storage storage.Storage,
	clock clock.Clock,
	ids ids.Generator,
	metrics *metrics.Manager,
	logger *slog.Logger,
) *Repository {
	return &Repository{
		storage: storage,
		clock:   clock,
		ids:     ids,
		metrics: metrics,
		logger:  logger,
	}
}

// Create stores a new entry, assigning its id and server timestamp
func (r *Repository) Create(ctx context.Context, draft model.EntryDraft) (model.EntryID, error) {
	if err := model.ValidateDraft(draft); err != nil {
		return "", err
	}

	entry := draft.Entry(model.EntryID(r.ids.NewID()), r.clock.Now())
	err := r.storage.SaveEntry(ctx, entry)
	r.metrics.RecordEntryOperation("create", err)
	if err != nil {
		r.logger.Error("failed to create entry", "team_number", draft.TeamNumber, "error", err)
		return "", &model.PersistenceError{Op: "create entry", Err: err}
	}

	r.logger.Info("entry created",
		"entry_id", entry.ID,
		"scout_name", entry.ScoutName,
		"team_number", entry.TeamNumber,
		"match_number", entry.MatchNumber,
	)
	return entry.ID, nil
}

// ListAll returns every entry, newest first
func (r *Repository) ListAll(ctx context.Context) ([]*model.ScoutEntry, error) {
	return r.list(ctx, "list_all", "")
}

// ListByOwner returns the entries recorded under scoutName, newest first
func (r *Repository) ListByOwner(ctx context.Context, scoutName string) ([]*model.ScoutEntry, error) {
	return r.list(ctx, "list_by_owner", scoutName)
}

// Visible returns what user may see: everything for admins, their own entries otherwise
func (r *Repository) Visible(ctx context.Context, user *model.UserProfile) ([]*model.ScoutEntry, error) {
	if user.IsAdmin() {
		return r.ListAll(ctx)
	}
	return r.ListByOwner(ctx, user.DisplayName())
}

func (r *Repository) list(ctx context.Context, op, scoutName string) ([]*model.ScoutEntry, error) {
	q := storage.EntryQuery{ScoutName: scoutName, Order: storage.OrderCreatedDesc}
	entries, err := r.storage.ListEntries(ctx, q)

	if errors.Is(err, storage.ErrOrderUnsupported) {
		r.logger.Warn("store rejected ordering, sorting locally", "op", op, "scout_name", scoutName)
		r.metrics.RecordOrderFallback(op)

		q.Order = storage.OrderNone
		entries, err = r.storage.ListEntries(ctx, q)
		if err == nil {
			storage.SortNewestFirst(entries)
		}
	}

	r.metrics.RecordEntryOperation(op, err)
	if err != nil {
		r.logger.Error("failed to list entries", "op", op, "error", err)
		return nil, &model.PersistenceError{Op: "list entries", Err: err}
	}
	return entries, nil
}

// Get returns a single entry
func (r *Repository) Get(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error) {
	entry, err := r.storage.GetEntry(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return nil, err
		}
		return nil, &model.PersistenceError{Op: "get entry", Err: err}
	}
	return entry, nil
}

// Update merges patch into an existing entry
func (r *Repository) Update(ctx context.Context, id model.EntryID, patch model.EntryPatch) error {
	if err := model.ValidatePatch(patch); err != nil {
		return err
	}

	_, err := r.storage.UpdateEntry(ctx, id, patch)
	r.metrics.RecordEntryOperation("update", err)
	if err != nil {
		if errors.Is(err, model.ErrEntryNotFound) {
			return err
		}
		r.logger.Error("failed to update entry", "entry_id", id, "error", err)
		return &model.PersistenceError{Op: "update entry", Err: err}
	}

	r.logger.Info("entry updated", "entry_id", id)
	return nil
}

// Delete removes an entry; deleting a missing entry succeeds
func (r *Repository) Delete(ctx context.Context, id model.EntryID) error {
	err := r.storage.DeleteEntry(ctx, id)
	r.metrics.RecordEntryOperation("delete", err)
	if err != nil {
		r.logger.Error("failed to delete entry", "entry_id", id, "error", err)
		return &model.PersistenceError{Op: "delete entry", Err: err}
	}

	r.logger.Info("entry deleted", "entry_id", id)
	return nil
}
