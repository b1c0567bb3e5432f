package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Entry operations

func (s *Storage) SaveEntry(ctx context.Context, entry *model.ScoutEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Re-saving under a new scout name must drop the old index membership
	previous, err := s.GetEntry(ctx, entry.ID)
	if err != nil && !errors.Is(err, model.ErrEntryNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, entryKey(entry.ID), data, 0)
	pipe.ZAdd(ctx, entriesIndexKey(), redis.Z{
		Score:  float64(entry.CreatedAt.UnixMilli()),
		Member: string(entry.ID),
	})
	if previous != nil && previous.ScoutName != entry.ScoutName {
		pipe.SRem(ctx, scoutIndexKey(previous.ScoutName), string(entry.ID))
	}
	pipe.SAdd(ctx, scoutIndexKey(entry.ScoutName), string(entry.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEntry(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error) {
	data, err := s.client.Get(ctx, entryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEntryNotFound
		}
		return nil, err
	}

	var entry model.ScoutEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) ListEntries(ctx context.Context, q storage.EntryQuery) ([]*model.ScoutEntry, error) {
	var ids []string
	var err error

	switch {
	case q.ScoutName != "" && q.Order != storage.OrderNone:
		return nil, storage.ErrOrderUnsupported
	case q.ScoutName != "":
		ids, err = s.client.SMembers(ctx, scoutIndexKey(q.ScoutName)).Result()
		if err == nil {
			// SMEMBERS order is arbitrary; keep it stable between calls
			sort.Strings(ids)
		}
	case q.Order == storage.OrderCreatedDesc:
		ids, err = s.client.ZRevRange(ctx, entriesIndexKey(), 0, -1).Result()
	default:
		ids, err = s.client.ZRange(ctx, entriesIndexKey(), 0, -1).Result()
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.getEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	if q.Order == storage.OrderCreatedDesc {
		// Scores only hold milliseconds; settle ties the way the other backends do
		storage.SortNewestFirst(entries)
	}
	return entries, nil
}

// getEntries fetches entry documents with MGET, preserving the order of ids
func (s *Storage) getEntries(ctx context.Context, ids []string) ([]*model.ScoutEntry, error) {
	if len(ids) == 0 {
		return []*model.ScoutEntry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(model.EntryID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.ScoutEntry, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Deleted between index read and fetch
		}
		var entry model.ScoutEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (s *Storage) UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) (*model.ScoutEntry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Apply(patch)
	if err := s.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Storage) DeleteEntry(ctx context.Context, id model.EntryID) error {
	entry, err := s.GetEntry(ctx, id)
	if errors.Is(err, model.ErrEntryNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, entryKey(id))
	pipe.ZRem(ctx, entriesIndexKey(), string(id))
	pipe.SRem(ctx, scoutIndexKey(entry.ScoutName), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.UID), data, 0)
	pipe.SAdd(ctx, usersIndexKey(), string(user.UID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) DeleteUser(ctx context.Context, uid model.UserID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, userKey(uid))
	pipe.SRem(ctx, usersIndexKey(), string(uid))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, uid model.UserID) (*model.UserProfile, error) {
	data, err := s.client.Get(ctx, userKey(uid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.UserProfile, error) {
	uids, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return []*model.UserProfile{}, nil
	}

	keys := make([]string, len(uids))
	for i, uid := range uids {
		keys[i] = userKey(model.UserID(uid))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.UserProfile, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var user model.UserProfile
		if err := json.Unmarshal([]byte(str), &user); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, &user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})
	return users, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, credentialsKey(creds.UID), data, 0)
	pipe.Set(ctx, emailIndexKey(creds.Email), string(creds.UID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	uid, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, credentialsKey(model.UserID(uid))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
