// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/storage"
)

// Suite runs the shared storage contract against the backend built by NewStorage.
// Embed it in a backend's own suite and set NewStorage before suite.Run.
type Suite struct {
	suite.Suite

	NewStorage func() storage.Storage

	// FilteredOrdering is true when the backend can order a ScoutName-filtered listing
	FilteredOrdering bool

	Store storage.Storage
	Ctx   context.Context
}

var base = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

// Entry builds a fixture entry created offset minutes after a fixed base time
func Entry(id, scout, team string, offset int) *model.ScoutEntry {
	return &model.ScoutEntry{
		ID:          model.EntryID(id),
		ScoutName:   scout,
		TeamNumber:  team,
		MatchNumber: "1",
		TeamName:    "Team " + team,
		DriverSkill: 5,
		CreatedAt:   base.Add(time.Duration(offset) * time.Minute),
	}
}

func (s *Suite) SetupTest() {
	s.Store = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) save(entries ...*model.ScoutEntry) {
	for _, e := range entries {
		s.Require().NoError(s.Store.SaveEntry(s.Ctx, e))
	}
}

func ids(entries []*model.ScoutEntry) []model.EntryID {
	out := make([]model.EntryID, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

// Entry tests

func (s *Suite) TestSaveAndGetEntry() {
	e := Entry("e1", "Ada Lovelace", "118", 0)
	e.AutonomousNotes = "left the line"
	e.OwnerUID = "u1"
	s.save(e)

	got, err := s.Store.GetEntry(s.Ctx, "e1")
	s.Require().NoError(err)
	s.Equal(e.ScoutName, got.ScoutName)
	s.Equal(e.TeamNumber, got.TeamNumber)
	s.Equal(e.TeamName, got.TeamName)
	s.Equal(e.DriverSkill, got.DriverSkill)
	s.Equal(e.AutonomousNotes, got.AutonomousNotes)
	s.Equal(e.OwnerUID, got.OwnerUID)
	s.True(e.CreatedAt.Equal(got.CreatedAt))
}

func (s *Suite) TestGetEntryNotFound() {
	_, err := s.Store.GetEntry(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *Suite) TestListEntriesOrderedNewestFirst() {
	s.save(
		Entry("a", "Ada Lovelace", "118", 1),
		Entry("c", "Grace Hopper", "254", 3),
		Entry("b", "Ada Lovelace", "1678", 2),
	)

	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{Order: storage.OrderCreatedDesc})
	s.Require().NoError(err)
	s.Equal([]model.EntryID{"c", "b", "a"}, ids(got))
}

func (s *Suite) TestListEntriesOrderedWithinOneMillisecond() {
	at := func(id string, ns int) *model.ScoutEntry {
		e := Entry(id, "Ada Lovelace", "254", 0)
		e.CreatedAt = base.Add(time.Duration(ns))
		return e
	}
	s.save(at("m", 0), at("z", 100), at("y", 200), at("a", 200))

	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{Order: storage.OrderCreatedDesc})
	s.Require().NoError(err)
	s.Equal([]model.EntryID{"a", "y", "z", "m"}, ids(got))
}

func (s *Suite) TestListEntriesUnorderedReturnsEverything() {
	s.save(Entry("a", "Ada Lovelace", "118", 1), Entry("b", "Grace Hopper", "254", 2))

	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{})
	s.Require().NoError(err)
	s.ElementsMatch([]model.EntryID{"a", "b"}, ids(got))
}

func (s *Suite) TestListEntriesEmpty() {
	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{Order: storage.OrderCreatedDesc})
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *Suite) TestListEntriesFilteredByScout() {
	s.save(
		Entry("a", "Ada Lovelace", "118", 1),
		Entry("b", "Grace Hopper", "254", 2),
		Entry("c", "Ada Lovelace", "1678", 3),
	)

	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{ScoutName: "Ada Lovelace"})
	s.Require().NoError(err)
	s.ElementsMatch([]model.EntryID{"a", "c"}, ids(got))
}

func (s *Suite) TestListEntriesFilteredAndOrdered() {
	s.save(
		Entry("a", "Ada Lovelace", "118", 1),
		Entry("b", "Grace Hopper", "254", 2),
		Entry("c", "Ada Lovelace", "1678", 3),
	)

	got, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{
		ScoutName: "Ada Lovelace",
		Order:     storage.OrderCreatedDesc,
	})
	if !s.FilteredOrdering {
		s.ErrorIs(err, storage.ErrOrderUnsupported)
		return
	}
	s.Require().NoError(err)
	s.Equal([]model.EntryID{"c", "a"}, ids(got))
}

func (s *Suite) TestUpdateEntryMerges() {
	s.save(Entry("e1", "Ada Lovelace", "118", 0))

	skill := 9
	notes := "strong defence"
	got, err := s.Store.UpdateEntry(s.Ctx, "e1", model.EntryPatch{DriverSkill: &skill, GeneralNotes: &notes})
	s.Require().NoError(err)
	s.Equal(9, got.DriverSkill)
	s.Equal("strong defence", got.GeneralNotes)
	s.Equal("Team 118", got.TeamName)

	reloaded, err := s.Store.GetEntry(s.Ctx, "e1")
	s.Require().NoError(err)
	s.Equal(9, reloaded.DriverSkill)
	s.Equal("Ada Lovelace", reloaded.ScoutName)
	s.True(base.Equal(reloaded.CreatedAt))
}

func (s *Suite) TestUpdateEntryRenamesScoutInFilter() {
	s.save(Entry("e1", "Ada Lovelace", "118", 0))

	name := "Grace Hopper"
	_, err := s.Store.UpdateEntry(s.Ctx, "e1", model.EntryPatch{ScoutName: &name})
	s.Require().NoError(err)

	old, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{ScoutName: "Ada Lovelace"})
	s.Require().NoError(err)
	s.Empty(old)

	renamed, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{ScoutName: "Grace Hopper"})
	s.Require().NoError(err)
	s.Equal([]model.EntryID{"e1"}, ids(renamed))
}

func (s *Suite) TestUpdateEntryNotFound() {
	skill := 3
	_, err := s.Store.UpdateEntry(s.Ctx, "missing", model.EntryPatch{DriverSkill: &skill})
	s.ErrorIs(err, model.ErrEntryNotFound)
}

func (s *Suite) TestDeleteEntryIsIdempotent() {
	s.save(Entry("e1", "Ada Lovelace", "118", 0))

	s.Require().NoError(s.Store.DeleteEntry(s.Ctx, "e1"))
	s.Require().NoError(s.Store.DeleteEntry(s.Ctx, "e1"))
	s.Require().NoError(s.Store.DeleteEntry(s.Ctx, "never-existed"))

	_, err := s.Store.GetEntry(s.Ctx, "e1")
	s.ErrorIs(err, model.ErrEntryNotFound)

	all, err := s.Store.ListEntries(s.Ctx, storage.EntryQuery{Order: storage.OrderCreatedDesc})
	s.Require().NoError(err)
	s.Empty(all)
}

// User tests

func (s *Suite) TestSaveAndGetUser() {
	u := &model.UserProfile{UID: "u1", Email: "ada@example.com", Name: "Ada", Surname: "Lovelace", Role: model.RoleUser, CreatedAt: base}
	s.Require().NoError(s.Store.SaveUser(s.Ctx, u))

	got, err := s.Store.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", got.DisplayName())
	s.Equal(model.RoleUser, got.Role)

	u.Role = model.RoleAdmin
	s.Require().NoError(s.Store.SaveUser(s.Ctx, u))
	got, err = s.Store.GetUser(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, got.Role)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Store.GetUser(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestListUsers() {
	s.Require().NoError(s.Store.SaveUser(s.Ctx, &model.UserProfile{UID: "u2", Email: "grace@example.com", Role: model.RoleUser}))
	s.Require().NoError(s.Store.SaveUser(s.Ctx, &model.UserProfile{UID: "u1", Email: "ada@example.com", Role: model.RoleAdmin}))

	users, err := s.Store.ListUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("ada@example.com", users[0].Email)
	s.Equal("grace@example.com", users[1].Email)
}

func (s *Suite) TestDeleteUserIsIdempotent() {
	s.Require().NoError(s.Store.SaveUser(s.Ctx, &model.UserProfile{UID: "u1", Email: "ada@example.com", Role: model.RoleUser}))
	s.Require().NoError(s.Store.SaveUser(s.Ctx, &model.UserProfile{UID: "u2", Email: "grace@example.com", Role: model.RoleUser}))

	s.Require().NoError(s.Store.DeleteUser(s.Ctx, "u1"))
	s.Require().NoError(s.Store.DeleteUser(s.Ctx, "u1"))

	_, err := s.Store.GetUser(s.Ctx, "u1")
	s.ErrorIs(err, model.ErrUserNotFound)

	users, err := s.Store.ListUsers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(model.UserID("u2"), users[0].UID)
}

// Credential tests

func (s *Suite) TestCredentialsByEmailIgnoresCase() {
	creds := &model.Credentials{UID: "u1", Email: "ada@example.com", PasswordHash: "hash", CreatedAt: base, UpdatedAt: base}
	s.Require().NoError(s.Store.SaveCredentials(s.Ctx, creds))

	got, err := s.Store.GetCredentialsByEmail(s.Ctx, "Ada@Example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), got.UID)
	s.Equal("hash", got.PasswordHash)
}

func (s *Suite) TestCredentialsNotFound() {
	_, err := s.Store.GetCredentialsByEmail(s.Ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}
