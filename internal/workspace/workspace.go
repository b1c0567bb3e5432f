// Package workspace is the client-side application context: the entry list the
// views render, the form that edits it, who is signed in and stored preferences.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/itobot/scout/internal/form"
	"github.com/itobot/scout/internal/model"
)

// Errors
var (
	ErrClosed = errors.New("workspace closed")
	// ErrStale is returned by a load that was overtaken by a newer one
	ErrStale = errors.New("load superseded")
)

// Backend is the remote entry store as seen by the client
type Backend interface {
	ListEntries(ctx context.Context) ([]*model.ScoutEntry, error)
	CreateEntry(ctx context.Context, draft model.EntryDraft) (model.EntryID, error)
	UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) error
	DeleteEntry(ctx context.Context, id model.EntryID) error
}

// Workspace keeps the visible entry list in step with the backend.
// Every successful write is followed by a refresh.
type Workspace struct {
	backend Backend
	form    *form.Controller
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries []*model.ScoutEntry
	banner  error
	loads   uint64
	closed  bool
}

// New creates a Workspace for user. lookup may be nil.
func New(backend Backend, lookup form.NameLookup, user *model.UserProfile, logger *slog.Logger) *Workspace {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Workspace{
		backend: backend,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		entries: []*model.ScoutEntry{},
	}
	w.form = form.NewController(w, lookup, user, logger)
	return w
}

// Close cancels in-flight loads and lookups; later loads fail with ErrClosed
func (w *Workspace) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.form.Close()
}

// Form returns the entry form bound to this workspace
func (w *Workspace) Form() *form.Controller {
	return w.form
}

// Entries returns the current list
func (w *Workspace) Entries() []*model.ScoutEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*model.ScoutEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Banner returns the error of the last failed load, if the list is showing empty because of it
func (w *Workspace) Banner() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.banner
}

// Refresh reloads the list. A failed load leaves an empty list and sets the banner.
// A load overtaken by a newer one, or by Close, is discarded.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.loads++
	load := w.loads
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	entries, err := w.backend.ListEntries(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if load != w.loads {
		w.logger.Debug("discarding superseded entry load")
		return ErrStale
	}
	if err != nil {
		w.entries = []*model.ScoutEntry{}
		w.banner = err
		return err
	}
	w.entries = entries
	w.banner = nil
	return nil
}

// Create stores a new entry, then refreshes
func (w *Workspace) Create(ctx context.Context, draft model.EntryDraft) (model.EntryID, error) {
	id, err := w.backend.CreateEntry(ctx, draft)
	if err != nil {
		return "", err
	}
	w.refreshAfterWrite(ctx)
	return id, nil
}

// Update merges patch into an entry, then refreshes
func (w *Workspace) Update(ctx context.Context, id model.EntryID, patch model.EntryPatch) error {
	if err := w.backend.UpdateEntry(ctx, id, patch); err != nil {
		return err
	}
	w.refreshAfterWrite(ctx)
	return nil
}

// Delete removes an entry, drops an edit bound to it, then refreshes
func (w *Workspace) Delete(ctx context.Context, id model.EntryID) error {
	if err := w.backend.DeleteEntry(ctx, id); err != nil {
		return err
	}
	w.form.EntryDeleted(id)
	w.refreshAfterWrite(ctx)
	return nil
}

// refreshAfterWrite reloads after a write that already succeeded; a failed
// reload only shows up in the banner
func (w *Workspace) refreshAfterWrite(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		w.logger.Warn("refresh after write failed", "error", err)
	}
}

// Ensure Workspace can back the entry form
var _ form.Writer = (*Workspace)(nil)
