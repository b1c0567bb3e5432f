// Package stats derives team-level figures from scouting entries.
// Everything here is pure; callers pass in the entries they are allowed to see.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/itobot/scout/internal/model"
)

// Team is a distinct team seen in the entries
type Team struct {
	TeamNumber string
	TeamName   string
}

// TeamStats summarises every entry recorded for one team
type TeamStats struct {
	TeamNumber         string
	TeamName           string
	TotalEntries       int
	AverageDriverSkill float64 // rounded to one decimal
	HighestSkill       int
	LowestSkill        int
	LastScoutedAt      time.Time
	Entries            []*model.ScoutEntry
}

// Comparison is the side-by-side view of selected teams
type Comparison struct {
	Teams          []*TeamStats
	TotalEntries   int
	HighestAverage float64
	OverallAverage float64 // mean of the per-team averages, one decimal
}

// Summary holds the headline figures of the admin view
type Summary struct {
	TotalEntries int
	TeamCount    int
	BestDriver   *model.ScoutEntry // highest skill, first wins ties; nil when empty
}

// UniqueTeams lists each team once, named after its first occurrence in entries,
// sorted by team number with locale-aware string comparison ("118" before "254")
func UniqueTeams(entries []*model.ScoutEntry) []Team {
	seen := make(map[string]bool, len(entries))
	teams := make([]Team, 0)
	for _, e := range entries {
		if seen[e.TeamNumber] {
			continue
		}
		seen[e.TeamNumber] = true
		teams = append(teams, Team{TeamNumber: e.TeamNumber, TeamName: e.TeamName})
	}

	// Collators are not safe for concurrent use
	c := collate.New(language.Und)
	sort.SliceStable(teams, func(i, j int) bool {
		return c.CompareString(teams[i].TeamNumber, teams[j].TeamNumber) < 0
	})
	return teams
}

// ForTeam computes stats for teamNumber. It reports false when the team has no entries.
// Name and last-scouted time come from the most recently created entry.
func ForTeam(entries []*model.ScoutEntry, teamNumber string) (*TeamStats, bool) {
	var matched []*model.ScoutEntry
	for _, e := range entries {
		if e.TeamNumber == teamNumber {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}

	latest := matched[0]
	sum := 0
	highest, lowest := matched[0].DriverSkill, matched[0].DriverSkill
	for _, e := range matched {
		sum += e.DriverSkill
		highest = max(highest, e.DriverSkill)
		lowest = min(lowest, e.DriverSkill)
		if e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}

	return &TeamStats{
		TeamNumber:         teamNumber,
		TeamName:           latest.TeamName,
		TotalEntries:       len(matched),
		AverageDriverSkill: Round1(float64(sum) / float64(len(matched))),
		HighestSkill:       highest,
		LowestSkill:        lowest,
		LastScoutedAt:      latest.CreatedAt,
		Entries:            matched,
	}, true
}

// Compare builds stats for each selected team that has entries, in selection order
func Compare(entries []*model.ScoutEntry, teamNumbers []string) Comparison {
	var cmp Comparison
	seen := make(map[string]bool, len(teamNumbers))
	sumAvg := 0.0

	for _, n := range teamNumbers {
		if seen[n] {
			continue
		}
		seen[n] = true

		ts, ok := ForTeam(entries, n)
		if !ok {
			continue
		}
		cmp.Teams = append(cmp.Teams, ts)
		cmp.TotalEntries += ts.TotalEntries
		cmp.HighestAverage = max(cmp.HighestAverage, ts.AverageDriverSkill)
		sumAvg += ts.AverageDriverSkill
	}

	if len(cmp.Teams) > 0 {
		cmp.OverallAverage = Round1(sumAvg / float64(len(cmp.Teams)))
	}
	return cmp
}

// Search keeps entries whose team name contains term (case-insensitive)
// or whose team number contains it. An empty term keeps everything.
func Search(entries []*model.ScoutEntry, term string) []*model.ScoutEntry {
	term = strings.TrimSpace(term)
	if term == "" {
		return entries
	}

	lower := strings.ToLower(term)
	out := make([]*model.ScoutEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.TeamName), lower) || strings.Contains(e.TeamNumber, term) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize returns the admin headline figures
func Summarize(entries []*model.ScoutEntry) Summary {
	s := Summary{TotalEntries: len(entries)}
	teams := make(map[string]bool)
	for _, e := range entries {
		teams[e.TeamNumber] = true
		if s.BestDriver == nil || e.DriverSkill > s.BestDriver.DriverSkill {
			s.BestDriver = e
		}
	}
	s.TeamCount = len(teams)
	return s
}

// SkillBand buckets an average skill for display
func SkillBand(avg float64) string {
	switch {
	case avg >= 8:
		return "high"
	case avg >= 6:
		return "medium"
	default:
		return "low"
	}
}

// Round1 rounds to one decimal place, halves away from zero
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
