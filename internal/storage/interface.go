package storage

import (
	"context"
	"errors"

	"github.com/itobot/scout/internal/model"
)

// ErrOrderUnsupported is returned when a backend cannot apply the requested
// ordering to a query shape. Callers re-query with OrderNone and sort locally.
var ErrOrderUnsupported = errors.New("ordering not supported for this query")

// Order selects how ListEntries sorts its result
type Order int

const (
	// OrderNone leaves the result in backend order
	OrderNone Order = iota
	// OrderCreatedDesc returns the newest entries first
	OrderCreatedDesc
)

// EntryQuery filters and orders a listing
type EntryQuery struct {
	// ScoutName is an equality filter; empty means all entries
	ScoutName string
	Order     Order
}

// Storage defines the interface for data persistence
type Storage interface {
	// Entry operations
	SaveEntry(ctx context.Context, entry *model.ScoutEntry) error
	GetEntry(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error)
	ListEntries(ctx context.Context, q EntryQuery) ([]*model.ScoutEntry, error)
	// UpdateEntry merges the patch into the stored entry, returning model.ErrEntryNotFound if absent
	UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) (*model.ScoutEntry, error)
	// DeleteEntry is idempotent: deleting a missing entry is not an error
	DeleteEntry(ctx context.Context, id model.EntryID) error

	// User operations
	SaveUser(ctx context.Context, user *model.UserProfile) error
	GetUser(ctx context.Context, uid model.UserID) (*model.UserProfile, error)
	ListUsers(ctx context.Context) ([]*model.UserProfile, error)
	// DeleteUser removes the profile only; credentials are untouched. Idempotent.
	DeleteUser(ctx context.Context, uid model.UserID) error

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error)

	Close() error
}
