package sqldb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/itobot/scout/internal/storage"
	"github.com/itobot/scout/internal/storage/storagetest"
)

type SQLiteSuite struct {
	storagetest.Suite
}

func TestSQLiteSuite(t *testing.T) {
	s := new(SQLiteSuite)
	s.FilteredOrdering = true
	s.NewStorage = func() storage.Storage {
		store, err := New(context.Background(), Config{
			Driver: DriverSQLite,
			DSN:    filepath.Join(s.T().TempDir(), "scout.db"),
		})
		s.Require().NoError(err)
		return store
	}
	suite.Run(t, s)
}

func (s *SQLiteSuite) TestSchemaIsIdempotent() {
	store := s.Store.(*Storage)
	s.Require().NoError(store.migrate(s.Ctx))
}

func (s *SQLiteSuite) TestDataSurvivesReopen() {
	dsn := filepath.Join(s.T().TempDir(), "reopen.db")
	first, err := New(s.Ctx, Config{Driver: DriverSQLite, DSN: dsn})
	s.Require().NoError(err)
	s.Require().NoError(first.SaveEntry(s.Ctx, storagetest.Entry("e1", "Ada Lovelace", "118", 0)))
	s.Require().NoError(first.Close())

	second, err := New(s.Ctx, Config{Driver: DriverSQLite, DSN: dsn})
	s.Require().NoError(err)
	defer second.Close()

	got, err := second.GetEntry(s.Ctx, "e1")
	s.Require().NoError(err)
	s.Equal("Team 118", got.TeamName)
}

// TestPostgresSuite runs against a real database when SCOUT_TEST_POSTGRES_URL is set
func TestPostgresSuite(t *testing.T) {
	dsn := os.Getenv("SCOUT_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("SCOUT_TEST_POSTGRES_URL not set")
	}

	s := new(storagetest.Suite)
	s.FilteredOrdering = true
	s.NewStorage = func() storage.Storage {
		store, err := New(context.Background(), Config{Driver: DriverPostgres, DSN: dsn})
		require.NoError(t, err)
		_, err = store.db.Exec("TRUNCATE scouts, users, credentials")
		require.NoError(t, err)
		return store
	}
	suite.Run(t, s)
}

func TestUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
}
