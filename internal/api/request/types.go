package request

import (
	"github.com/itobot/scout/internal/model"
)

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateEntryRequest is the request body for recording a scouting entry.
// The scout name and owner come from the session, never from the body.
type CreateEntryRequest struct {
	TeamNumber      string `json:"team_number"`
	MatchNumber     string `json:"match_number"`
	TeamName        string `json:"team_name"`
	DriverSkill     int    `json:"driver_skill"`
	AutonomousNotes string `json:"autonomous_notes"`
	TeleopNotes     string `json:"teleop_notes"`
	GeneralNotes    string `json:"general_notes"`
}

// Draft builds the entry draft attributed to user
func (r CreateEntryRequest) Draft(user *model.UserProfile) model.EntryDraft {
	return model.EntryDraft{
		ScoutName:       user.DisplayName(),
		TeamNumber:      r.TeamNumber,
		MatchNumber:     r.MatchNumber,
		TeamName:        r.TeamName,
		DriverSkill:     r.DriverSkill,
		AutonomousNotes: r.AutonomousNotes,
		TeleopNotes:     r.TeleopNotes,
		GeneralNotes:    r.GeneralNotes,
		OwnerUID:        user.UID,
	}
}

// UpdateEntryRequest is the request body for a merge update; absent fields are left alone
type UpdateEntryRequest struct {
	ScoutName       *string `json:"scout_name,omitempty"`
	TeamNumber      *string `json:"team_number,omitempty"`
	MatchNumber     *string `json:"match_number,omitempty"`
	TeamName        *string `json:"team_name,omitempty"`
	DriverSkill     *int    `json:"driver_skill,omitempty"`
	AutonomousNotes *string `json:"autonomous_notes,omitempty"`
	TeleopNotes     *string `json:"teleop_notes,omitempty"`
	GeneralNotes    *string `json:"general_notes,omitempty"`
}

// Patch converts the request into a model patch
func (r UpdateEntryRequest) Patch() model.EntryPatch {
	return model.EntryPatch{
		ScoutName:       r.ScoutName,
		TeamNumber:      r.TeamNumber,
		MatchNumber:     r.MatchNumber,
		TeamName:        r.TeamName,
		DriverSkill:     r.DriverSkill,
		AutonomousNotes: r.AutonomousNotes,
		TeleopNotes:     r.TeleopNotes,
		GeneralNotes:    r.GeneralNotes,
	}
}

// UpdateEntryRequestFromPatch is the inverse of Patch, used by clients
func UpdateEntryRequestFromPatch(p model.EntryPatch) UpdateEntryRequest {
	return UpdateEntryRequest{
		ScoutName:       p.ScoutName,
		TeamNumber:      p.TeamNumber,
		MatchNumber:     p.MatchNumber,
		TeamName:        p.TeamName,
		DriverSkill:     p.DriverSkill,
		AutonomousNotes: p.AutonomousNotes,
		TeleopNotes:     p.TeleopNotes,
		GeneralNotes:    p.GeneralNotes,
	}
}

// SetRoleRequest is the request body for changing a user's role
type SetRoleRequest struct {
	Role string `json:"role"`
}
