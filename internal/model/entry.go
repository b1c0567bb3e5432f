package model

import "time"

// EntryID uniquely identifies a scouting entry
type EntryID string

// ScoutEntry is one observation of one team in one match
type ScoutEntry struct {
	ID              EntryID
	ScoutName       string // "Name Surname" of the observer, immutable for non-admins
	TeamNumber      string
	MatchNumber     string
	TeamName        string
	DriverSkill     int // 1-10
	AutonomousNotes string
	TeleopNotes     string
	GeneralNotes    string
	OwnerUID        UserID
	CreatedAt       time.Time // assigned by the server on create
}

// EntryDraft holds the user-supplied fields of a new entry
type EntryDraft struct {
	ScoutName       string
	TeamNumber      string
	MatchNumber     string
	TeamName        string
	DriverSkill     int
	AutonomousNotes string
	TeleopNotes     string
	GeneralNotes    string
	OwnerUID        UserID
}

// EntryPatch is a partial update; nil fields are left unchanged
type EntryPatch struct {
	ScoutName       *string
	TeamNumber      *string
	MatchNumber     *string
	TeamName        *string
	DriverSkill     *int
	AutonomousNotes *string
	TeleopNotes     *string
	GeneralNotes    *string
}

// Entry builds a full entry from the draft
func (d EntryDraft) Entry(id EntryID, createdAt time.Time) *ScoutEntry {
	return &ScoutEntry{
		ID:              id,
		ScoutName:       d.ScoutName,
		TeamNumber:      d.TeamNumber,
		MatchNumber:     d.MatchNumber,
		TeamName:        d.TeamName,
		DriverSkill:     d.DriverSkill,
		AutonomousNotes: d.AutonomousNotes,
		TeleopNotes:     d.TeleopNotes,
		GeneralNotes:    d.GeneralNotes,
		OwnerUID:        d.OwnerUID,
		CreatedAt:       createdAt,
	}
}

// IsEmpty reports whether the patch changes nothing
func (p EntryPatch) IsEmpty() bool {
	return p.ScoutName == nil && p.TeamNumber == nil && p.MatchNumber == nil &&
		p.TeamName == nil && p.DriverSkill == nil && p.AutonomousNotes == nil &&
		p.TeleopNotes == nil && p.GeneralNotes == nil
}

// Apply merges the non-nil patch fields into the entry.
// ID, OwnerUID and CreatedAt are never touched.
func (e *ScoutEntry) Apply(p EntryPatch) {
	if p.ScoutName != nil {
		e.ScoutName = *p.ScoutName
	}
	if p.TeamNumber != nil {
		e.TeamNumber = *p.TeamNumber
	}
	if p.MatchNumber != nil {
		e.MatchNumber = *p.MatchNumber
	}
	if p.TeamName != nil {
		e.TeamName = *p.TeamName
	}
	if p.DriverSkill != nil {
		e.DriverSkill = *p.DriverSkill
	}
	if p.AutonomousNotes != nil {
		e.AutonomousNotes = *p.AutonomousNotes
	}
	if p.TeleopNotes != nil {
		e.TeleopNotes = *p.TeleopNotes
	}
	if p.GeneralNotes != nil {
		e.GeneralNotes = *p.GeneralNotes
	}
}

// EditableBy reports whether the user may view, edit or delete the entry
func (e *ScoutEntry) EditableBy(u *UserProfile) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if e.OwnerUID != "" && e.OwnerUID == u.UID {
		return true
	}
	return e.ScoutName == u.DisplayName()
}
