package response

import (
	"time"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/services/stats"
)

// User represents a user profile in API responses
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFromModel converts a model.UserProfile
func UserFromModel(u *model.UserProfile) User {
	return User{
		UID:         string(u.UID),
		Email:       u.Email,
		Name:        u.Name,
		Surname:     u.Surname,
		DisplayName: u.DisplayName(),
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

// Model converts back to a model.UserProfile
func (u User) Model() *model.UserProfile {
	return &model.UserProfile{
		UID:       model.UserID(u.UID),
		Email:     u.Email,
		Name:      u.Name,
		Surname:   u.Surname,
		Role:      model.Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// UserList is the response for the admin user listing
type UserList struct {
	Users []User `json:"users"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User      `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.Profile),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Entry represents a scouting entry
type Entry struct {
	ID              string    `json:"id"`
	ScoutName       string    `json:"scout_name"`
	TeamNumber      string    `json:"team_number"`
	MatchNumber     string    `json:"match_number"`
	TeamName        string    `json:"team_name"`
	DriverSkill     int       `json:"driver_skill"`
	AutonomousNotes string    `json:"autonomous_notes"`
	TeleopNotes     string    `json:"teleop_notes"`
	GeneralNotes    string    `json:"general_notes"`
	OwnerUID        string    `json:"owner_uid,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// EntryFromModel converts a model.ScoutEntry
func EntryFromModel(e *model.ScoutEntry) Entry {
	return Entry{
		ID:              string(e.ID),
		ScoutName:       e.ScoutName,
		TeamNumber:      e.TeamNumber,
		MatchNumber:     e.MatchNumber,
		TeamName:        e.TeamName,
		DriverSkill:     e.DriverSkill,
		AutonomousNotes: e.AutonomousNotes,
		TeleopNotes:     e.TeleopNotes,
		GeneralNotes:    e.GeneralNotes,
		OwnerUID:        string(e.OwnerUID),
		CreatedAt:       e.CreatedAt,
	}
}

// Model converts back to a model.ScoutEntry
func (e Entry) Model() *model.ScoutEntry {
	return &model.ScoutEntry{
		ID:              model.EntryID(e.ID),
		ScoutName:       e.ScoutName,
		TeamNumber:      e.TeamNumber,
		MatchNumber:     e.MatchNumber,
		TeamName:        e.TeamName,
		DriverSkill:     e.DriverSkill,
		AutonomousNotes: e.AutonomousNotes,
		TeleopNotes:     e.TeleopNotes,
		GeneralNotes:    e.GeneralNotes,
		OwnerUID:        model.UserID(e.OwnerUID),
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromModel converts a list of entries
func EntriesFromModel(entries []*model.ScoutEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryFromModel(e))
	}
	return out
}

// EntriesToModel converts a list of entries back
func EntriesToModel(entries []Entry) []*model.ScoutEntry {
	out := make([]*model.ScoutEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Model())
	}
	return out
}

// EntryList is the response for entry listings
type EntryList struct {
	Entries []Entry `json:"entries"`
}

// CreatedEntry is the response for a newly recorded entry
type CreatedEntry struct {
	ID string `json:"id"`
}

// Team is a distinct scouted team
type Team struct {
	TeamNumber string `json:"team_number"`
	TeamName   string `json:"team_name"`
}

// TeamList is the response for the team listing
type TeamList struct {
	Teams []Team `json:"teams"`
}

// TeamListFromStats converts stats.Team values
func TeamListFromStats(teams []stats.Team) TeamList {
	out := TeamList{Teams: make([]Team, 0, len(teams))}
	for _, t := range teams {
		out.Teams = append(out.Teams, Team{TeamNumber: t.TeamNumber, TeamName: t.TeamName})
	}
	return out
}

// TeamStats is the aggregate view of one team
type TeamStats struct {
	TeamNumber         string    `json:"team_number"`
	TeamName           string    `json:"team_name"`
	TotalEntries       int       `json:"total_entries"`
	AverageDriverSkill float64   `json:"average_driver_skill"`
	HighestSkill       int       `json:"highest_skill"`
	LowestSkill        int       `json:"lowest_skill"`
	SkillBand          string    `json:"skill_band"`
	LastScoutedAt      time.Time `json:"last_scouted_at"`
	Entries            []Entry   `json:"entries"`
}

// TeamStatsFromStats converts a stats.TeamStats
func TeamStatsFromStats(s *stats.TeamStats) TeamStats {
	return TeamStats{
		TeamNumber:         s.TeamNumber,
		TeamName:           s.TeamName,
		TotalEntries:       s.TotalEntries,
		AverageDriverSkill: s.AverageDriverSkill,
		HighestSkill:       s.HighestSkill,
		LowestSkill:        s.LowestSkill,
		SkillBand:          stats.SkillBand(s.AverageDriverSkill),
		LastScoutedAt:      s.LastScoutedAt,
		Entries:            EntriesFromModel(s.Entries),
	}
}

// Comparison is the side-by-side view of several teams
type Comparison struct {
	Teams          []TeamStats `json:"teams"`
	TotalEntries   int         `json:"total_entries"`
	HighestAverage float64     `json:"highest_average"`
	OverallAverage float64     `json:"overall_average"`
}

// ComparisonFromStats converts a stats.Comparison
func ComparisonFromStats(c stats.Comparison) Comparison {
	out := Comparison{
		Teams:          make([]TeamStats, 0, len(c.Teams)),
		TotalEntries:   c.TotalEntries,
		HighestAverage: c.HighestAverage,
		OverallAverage: c.OverallAverage,
	}
	for _, t := range c.Teams {
		out.Teams = append(out.Teams, TeamStatsFromStats(t))
	}
	return out
}

// TeamName is the lookup answer for a team number; empty when unknown
type TeamName struct {
	TeamNumber string `json:"team_number"`
	TeamName   string `json:"team_name"`
}

// Summary holds the admin headline figures
type Summary struct {
	TotalEntries int    `json:"total_entries"`
	TeamCount    int    `json:"team_count"`
	BestDriver   *Entry `json:"best_driver,omitempty"`
}

// SummaryFromStats converts a stats.Summary
func SummaryFromStats(s stats.Summary) Summary {
	out := Summary{TotalEntries: s.TotalEntries, TeamCount: s.TeamCount}
	if s.BestDriver != nil {
		best := EntryFromModel(s.BestDriver)
		out.BestDriver = &best
	}
	return out
}

// Export is the downloadable document of every entry
type Export struct {
	ExportedAt   time.Time `json:"exported_at"`
	TotalEntries int       `json:"total_entries"`
	Entries      []Entry   `json:"entries"`
}

// Health is the response of the health check
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
