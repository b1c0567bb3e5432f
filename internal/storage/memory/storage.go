package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	entries     map[model.EntryID]*model.ScoutEntry
	users       map[model.UserID]*model.UserProfile
	credentials map[model.UserID]*model.Credentials
	emailIndex  map[string]model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		entries:     make(map[model.EntryID]*model.ScoutEntry),
		users:       make(map[model.UserID]*model.UserProfile),
		credentials: make(map[model.UserID]*model.Credentials),
		emailIndex:  make(map[string]model.UserID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// Entry operations

func (s *Storage) SaveEntry(ctx context.Context, entry *model.ScoutEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries[entry.ID] = &cp
	return nil
}

func (s *Storage) GetEntry(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	cp := *entry
	return &cp, nil
}

func (s *Storage) ListEntries(ctx context.Context, q storage.EntryQuery) ([]*model.ScoutEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.ScoutEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if q.ScoutName != "" && entry.ScoutName != q.ScoutName {
			continue
		}
		cp := *entry
		result = append(result, &cp)
	}

	if q.Order == storage.OrderCreatedDesc {
		storage.SortNewestFirst(result)
	}
	return result, nil
}

func (s *Storage) UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) (*model.ScoutEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, model.ErrEntryNotFound
	}
	entry.Apply(patch)
	cp := *entry
	return &cp, nil
}

func (s *Storage) DeleteEntry(ctx context.Context, id model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.UID] = &cp
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, uid model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, uid)
	return nil
}

func (s *Storage) GetUser(ctx context.Context, uid model.UserID) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[uid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.UserProfile, 0, len(s.users))
	for _, user := range s.users {
		cp := *user
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Email < result[j].Email
	})
	return result, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *creds
	s.credentials[creds.UID] = &cp
	s.emailIndex[strings.ToLower(creds.Email)] = creds.UID
	return nil
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	creds, ok := s.credentials[uid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *creds
	return &cp, nil
}
