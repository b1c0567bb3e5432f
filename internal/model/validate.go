package model

import "strings"

const (
	MinDriverSkill = 1
	MaxDriverSkill = 10
)

// ValidateDraft checks that a new entry has every required field
func ValidateDraft(d EntryDraft) error {
	required := []struct {
		field, value string
	}{
		{"scout_name", d.ScoutName},
		{"team_number", d.TeamNumber},
		{"match_number", d.MatchNumber},
		{"team_name", d.TeamName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	return validateSkill(d.DriverSkill)
}

// ValidatePatch checks the fields a patch sets; required fields may not be blanked
func ValidatePatch(p EntryPatch) error {
	required := []struct {
		field string
		value *string
	}{
		{"scout_name", p.ScoutName},
		{"team_number", p.TeamNumber},
		{"match_number", p.MatchNumber},
		{"team_name", p.TeamName},
	}
	for _, r := range required {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if p.DriverSkill != nil {
		return validateSkill(*p.DriverSkill)
	}
	return nil
}

func validateSkill(skill int) error {
	if skill < MinDriverSkill || skill > MaxDriverSkill {
		return &ValidationError{Field: "driver_skill", Message: "must be between 1 and 10"}
	}
	return nil
}
