package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/workspace"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// Warn writes a notice to stderr in either format
func (o *Output) Warn(msg string) {
	_, _ = fmt.Fprintf(o.errW, "Warning: %s\n", msg)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\nStorage: %s\n", v.Status, v.Storage)
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printUser(v.User)
		o.printf("Session expires %s\n", humanize.Time(v.ExpiresAt))
	case response.UserList:
		for _, u := range v.Users {
			o.printf("%-24s %-32s %-6s %s\n", u.UID, u.Email, u.Role, u.DisplayName)
		}
	case response.Entry:
		o.printEntry(v)
	case response.EntryList:
		o.printEntries(v.Entries)
	case response.CreatedEntry:
		o.printf("Created entry %s\n", v.ID)
	case response.TeamList:
		if len(v.Teams) == 0 {
			o.printf("No teams scouted yet\n")
		}
		for _, t := range v.Teams {
			o.printf("%-6s %s\n", t.TeamNumber, t.TeamName)
		}
	case response.TeamStats:
		o.printTeamStats(v)
	case response.Comparison:
		o.printComparison(v)
	case response.Summary:
		o.printf("Total entries: %s\nTeams scouted: %s\n", humanize.Comma(int64(v.TotalEntries)), humanize.Comma(int64(v.TeamCount)))
		if v.BestDriver != nil {
			o.printf("Best driver: team %s (%s) skill %d, match %s\n",
				v.BestDriver.TeamNumber, v.BestDriver.TeamName, v.BestDriver.DriverSkill, v.BestDriver.MatchNumber)
		}
	case ThemeResult:
		o.printf("Theme: %s\n", v.Theme)
	case ExportResult:
		o.printf("Exported %d entries to %s (%s)\n", v.TotalEntries, v.File, humanize.Bytes(uint64(v.Bytes)))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ThemeResult is the output of the prefs theme command
type ThemeResult struct {
	Theme workspace.Theme `json:"theme"`
}

// ExportResult is the output of the admin export command
type ExportResult struct {
	File         string `json:"file"`
	TotalEntries int    `json:"total_entries"`
	Bytes        int    `json:"bytes"`
}

func (o *Output) printUser(u response.User) {
	o.printf("User: %s <%s> (%s)\n", u.DisplayName, u.Email, u.UID)
	o.printf("Role: %s\n", u.Role)
}

func (o *Output) printEntry(e response.Entry) {
	o.printf("Entry %s\n", e.ID)
	o.printf("  Team:    %s %s\n", e.TeamNumber, e.TeamName)
	o.printf("  Match:   %s\n", e.MatchNumber)
	o.printf("  Scout:   %s\n", e.ScoutName)
	o.printf("  Skill:   %d\n", e.DriverSkill)
	for _, n := range []struct{ label, text string }{
		{"Auto", e.AutonomousNotes},
		{"Teleop", e.TeleopNotes},
		{"Notes", e.GeneralNotes},
	} {
		if strings.TrimSpace(n.text) != "" {
			o.printf("  %-8s %s\n", n.label+":", n.text)
		}
	}
	o.printf("  Scouted: %s\n", humanize.Time(e.CreatedAt))
}

func (o *Output) printEntries(entries []response.Entry) {
	if len(entries) == 0 {
		o.printf("No entries\n")
		return
	}
	for _, e := range entries {
		o.printf("%-24s %-6s %-24s %-6s %2d  %-20s %s\n",
			e.ID, e.TeamNumber, e.TeamName, e.MatchNumber, e.DriverSkill, e.ScoutName, humanize.Time(e.CreatedAt))
	}
}

func (o *Output) printTeamStats(s response.TeamStats) {
	o.printf("Team %s %s\n", s.TeamNumber, s.TeamName)
	o.printf("  Entries:       %d\n", s.TotalEntries)
	o.printf("  Average skill: %.1f (%s)\n", s.AverageDriverSkill, s.SkillBand)
	o.printf("  Range:         %d to %d\n", s.LowestSkill, s.HighestSkill)
	o.printf("  Last scouted:  %s\n", humanize.Time(s.LastScoutedAt))
}

func (o *Output) printComparison(c response.Comparison) {
	if len(c.Teams) == 0 {
		o.printf("None of the selected teams have been scouted\n")
		return
	}
	for _, t := range c.Teams {
		o.printTeamStats(t)
	}
	o.printf("Teams: %d  Entries: %d  Highest average: %.1f  Overall average: %.1f\n",
		len(c.Teams), c.TotalEntries, c.HighestAverage, c.OverallAverage)
}
