package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

var entryColumns = []string{
	"id", "scout_name", "team_number", "match_number", "team_name", "driver_skill",
	"autonomous_notes", "teleop_notes", "general_notes", "owner_uid", "created_at",
}

// Storage is a SQL implementation of the storage interface (sqlite or postgres)
type Storage struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// New opens the database, verifies the connection and applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	name, err := cfg.Driver.driverName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	switch {
	case cfg.Driver == DriverSQLite:
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	s := &Storage{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(cfg.Driver.placeholders()),
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.ScoutEntry, error) {
	var e model.ScoutEntry
	var createdAt int64
	err := row.Scan(&e.ID, &e.ScoutName, &e.TeamNumber, &e.MatchNumber, &e.TeamName, &e.DriverSkill,
		&e.AutonomousNotes, &e.TeleopNotes, &e.GeneralNotes, &e.OwnerUID, &createdAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = fromNanos(createdAt)
	return &e, nil
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// Entry operations

func (s *Storage) SaveEntry(ctx context.Context, entry *model.ScoutEntry) error {
	query, args, err := s.sb.Insert("scouts").
		Columns(entryColumns...).
		Values(string(entry.ID), entry.ScoutName, entry.TeamNumber, entry.MatchNumber, entry.TeamName, entry.DriverSkill,
			entry.AutonomousNotes, entry.TeleopNotes, entry.GeneralNotes, string(entry.OwnerUID), entry.CreatedAt.UnixNano()).
		Suffix(upsertSuffix("id", entryColumns[1:])).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// upsertSuffix builds the ON CONFLICT clause shared by sqlite and postgres
func upsertSuffix(key string, columns []string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, strings.Join(sets, ", "))
}

func (s *Storage) GetEntry(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error) {
	query, args, err := s.sb.Select(entryColumns...).From("scouts").Where(sq.Eq{"id": string(id)}).ToSql()
	if err != nil {
		return nil, err
	}

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEntryNotFound
	}
	return entry, err
}

func (s *Storage) ListEntries(ctx context.Context, q storage.EntryQuery) ([]*model.ScoutEntry, error) {
	builder := s.sb.Select(entryColumns...).From("scouts")
	if q.ScoutName != "" {
		builder = builder.Where(sq.Eq{"scout_name": q.ScoutName})
	}
	if q.Order == storage.OrderCreatedDesc {
		builder = builder.OrderBy("created_at DESC", "id ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*model.ScoutEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Storage) UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) (*model.ScoutEntry, error) {
	changes := patchColumns(patch)
	if len(changes) == 0 {
		return s.GetEntry(ctx, id)
	}

	query, args, err := s.sb.Update("scouts").SetMap(changes).Where(sq.Eq{"id": string(id)}).ToSql()
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, model.ErrEntryNotFound
	}
	return s.GetEntry(ctx, id)
}

func patchColumns(p model.EntryPatch) map[string]any {
	changes := map[string]any{}
	if p.ScoutName != nil {
		changes["scout_name"] = *p.ScoutName
	}
	if p.TeamNumber != nil {
		changes["team_number"] = *p.TeamNumber
	}
	if p.MatchNumber != nil {
		changes["match_number"] = *p.MatchNumber
	}
	if p.TeamName != nil {
		changes["team_name"] = *p.TeamName
	}
	if p.DriverSkill != nil {
		changes["driver_skill"] = *p.DriverSkill
	}
	if p.AutonomousNotes != nil {
		changes["autonomous_notes"] = *p.AutonomousNotes
	}
	if p.TeleopNotes != nil {
		changes["teleop_notes"] = *p.TeleopNotes
	}
	if p.GeneralNotes != nil {
		changes["general_notes"] = *p.GeneralNotes
	}
	return changes
}

func (s *Storage) DeleteEntry(ctx context.Context, id model.EntryID) error {
	query, args, err := s.sb.Delete("scouts").Where(sq.Eq{"id": string(id)}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// User operations

var userColumns = []string{"uid", "email", "name", "surname", "role", "created_at"}

func scanUser(row scanner) (*model.UserProfile, error) {
	var u model.UserProfile
	var createdAt int64
	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.Surname, &u.Role, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = fromNanos(createdAt)
	return &u, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *model.UserProfile) error {
	query, args, err := s.sb.Insert("users").
		Columns(userColumns...).
		Values(string(user.UID), user.Email, user.Name, user.Surname, string(user.Role), user.CreatedAt.UnixNano()).
		Suffix(upsertSuffix("uid", userColumns[1:])).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Storage) DeleteUser(ctx context.Context, uid model.UserID) error {
	query, args, err := s.sb.Delete("users").Where(sq.Eq{"uid": string(uid)}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Storage) GetUser(ctx context.Context, uid model.UserID) (*model.UserProfile, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").Where(sq.Eq{"uid": string(uid)}).ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	return user, err
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.UserProfile, error) {
	query, args, err := s.sb.Select(userColumns...).From("users").OrderBy("email ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.UserProfile{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Credential operations

var credentialColumns = []string{"uid", "email", "password_hash", "created_at", "updated_at"}

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	query, args, err := s.sb.Insert("credentials").
		Columns(credentialColumns...).
		Values(string(creds.UID), strings.ToLower(creds.Email), creds.PasswordHash,
			creds.CreatedAt.UnixNano(), creds.UpdatedAt.UnixNano()).
		Suffix(upsertSuffix("uid", credentialColumns[1:])).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Storage) GetCredentialsByEmail(ctx context.Context, email string) (*model.Credentials, error) {
	query, args, err := s.sb.Select(credentialColumns...).
		From("credentials").
		Where(sq.Eq{"email": strings.ToLower(email)}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var c model.Credentials
	var createdAt, updatedAt int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&c.UID, &c.Email, &c.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt = fromNanos(createdAt)
	c.UpdatedAt = fromNanos(updatedAt)
	return &c, nil
}
