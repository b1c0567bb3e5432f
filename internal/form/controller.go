// Package form drives the create/edit entry form: a draft, its state machine,
// submission and the background team-name lookup.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itobot/scout/internal/model"
)

// State of the form
type State string

const (
	StateIdle    State = "idle"
	StateNew     State = "new"
	StateEditing State = "editing"
)

// Field names a draft input
type Field string

const (
	FieldScoutName       Field = "scout_name"
	FieldTeamNumber      Field = "team_number"
	FieldMatchNumber     Field = "match_number"
	FieldTeamName        Field = "team_name"
	FieldDriverSkill     Field = "driver_skill"
	FieldAutonomousNotes Field = "autonomous_notes"
	FieldTeleopNotes     Field = "teleop_notes"
	FieldGeneralNotes    Field = "general_notes"
)

// DefaultDriverSkill prefills new drafts
const DefaultDriverSkill = "5"

// Errors
var (
	ErrNoDraft      = errors.New("no entry is being edited")
	ErrFieldLocked  = errors.New("field cannot be changed")
	ErrUnknownField = errors.New("unknown field")
)

// Draft holds the form inputs as typed
type Draft struct {
	ScoutName       string
	TeamNumber      string
	MatchNumber     string
	TeamName        string
	DriverSkill     string
	AutonomousNotes string
	TeleopNotes     string
	GeneralNotes    string
}

// Writer persists submitted drafts
type Writer interface {
	Create(ctx context.Context, draft model.EntryDraft) (model.EntryID, error)
	Update(ctx context.Context, id model.EntryID, patch model.EntryPatch) error
}

// NameLookup resolves a team number to a display name
type NameLookup interface {
	TeamName(ctx context.Context, teamNumber string) (string, error)
}

// Controller is the Idle / New / Editing state machine behind the entry form.
//
// A team-name lookup result is applied only if it answers the latest team-number
// change of the current draft and the team name has not been typed since.
type Controller struct {
	writer        Writer
	lookup        NameLookup
	user          *model.UserProfile
	logger        *slog.Logger
	lookupTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	draft       Draft
	editing     model.EntryID
	generation  uint64 // bumped whenever the draft is replaced or dropped
	lookupSeq   uint64 // bumped on every team-number change
	nameTouched bool   // team name typed since the last team-number change
	inflight    sync.WaitGroup
}

// NewController creates a form Controller for user; lookup may be nil
func NewController(writer Writer, lookup NameLookup, user *model.UserProfile, logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		writer:        writer,
		lookup:        lookup,
		user:          user,
		logger:        logger,
		lookupTimeout: 5 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
		state:         StateIdle,
	}
}

// Close abandons pending lookups
func (c *Controller) Close() {
	c.cancel()
	c.inflight.Wait()
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns a copy of the current draft
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// EditingID returns the entry bound to an Editing form, or ""
func (c *Controller) EditingID() model.EntryID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// StartNew opens an empty draft attributed to the current user
func (c *Controller) StartNew() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(StateNew, "", Draft{
		ScoutName:   c.user.DisplayName(),
		DriverSkill: DefaultDriverSkill,
	})
}

// StartEdit loads entry into the draft; its scout name stays locked
func (c *Controller) StartEdit(entry *model.ScoutEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(StateEditing, entry.ID, Draft{
		ScoutName:       entry.ScoutName,
		TeamNumber:      entry.TeamNumber,
		MatchNumber:     entry.MatchNumber,
		TeamName:        entry.TeamName,
		DriverSkill:     strconv.Itoa(entry.DriverSkill),
		AutonomousNotes: entry.AutonomousNotes,
		TeleopNotes:     entry.TeleopNotes,
		GeneralNotes:    entry.GeneralNotes,
	})
}

// Cancel drops the draft
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(StateIdle, "", Draft{})
}

// EntryDeleted cancels an edit bound to the deleted entry
func (c *Controller) EntryDeleted(id model.EntryID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateEditing && c.editing == id {
		c.reset(StateIdle, "", Draft{})
	}
}

// reset must be called with mu held
func (c *Controller) reset(state State, editing model.EntryID, draft Draft) {
	c.state = state
	c.editing = editing
	c.draft = draft
	c.generation++
	c.nameTouched = false
}

// Set updates one field. A non-empty team number starts a background name lookup.
func (c *Controller) Set(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return ErrNoDraft
	}

	switch field {
	case FieldScoutName:
		return ErrFieldLocked
	case FieldTeamNumber:
		c.draft.TeamNumber = value
		c.lookupSeq++
		c.nameTouched = false
		if strings.TrimSpace(value) != "" && c.lookup != nil {
			c.startLookup(value, c.generation, c.lookupSeq)
		}
	case FieldMatchNumber:
		c.draft.MatchNumber = value
	case FieldTeamName:
		c.draft.TeamName = value
		c.nameTouched = true
	case FieldDriverSkill:
		c.draft.DriverSkill = value
	case FieldAutonomousNotes:
		c.draft.AutonomousNotes = value
	case FieldTeleopNotes:
		c.draft.TeleopNotes = value
	case FieldGeneralNotes:
		c.draft.GeneralNotes = value
	default:
		return ErrUnknownField
	}
	return nil
}

// startLookup must be called with mu held
func (c *Controller) startLookup(teamNumber string, generation, seq uint64) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		ctx, cancel := context.WithTimeout(c.ctx, c.lookupTimeout)
		defer cancel()

		name, err := c.lookup.TeamName(ctx, teamNumber)
		if err != nil {
			c.logger.Debug("team name lookup failed", "team_number", teamNumber, "error", err)
			return
		}
		if name == "" {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if generation != c.generation || seq != c.lookupSeq || c.nameTouched {
			c.logger.Debug("discarding stale team name lookup", "team_number", teamNumber)
			return
		}
		c.draft.TeamName = name
	}()
}

// AwaitLookup blocks until pending lookups settle or ctx is done
func (c *Controller) AwaitLookup(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Submit validates the draft and creates or updates the entry.
// On success the form returns to Idle; on failure it keeps the draft.
func (c *Controller) Submit(ctx context.Context) (model.EntryID, error) {
	c.mu.Lock()
	state, draft, editing, generation := c.state, c.draft, c.editing, c.generation
	c.mu.Unlock()

	if state == StateIdle {
		return "", ErrNoDraft
	}

	entry, err := draft.toEntryDraft()
	if err != nil {
		return "", err
	}
	if err := model.ValidateDraft(entry); err != nil {
		return "", err
	}

	id := editing
	if state == StateNew {
		id, err = c.writer.Create(ctx, entry)
	} else {
		err = c.writer.Update(ctx, editing, draft.toPatch(entry.DriverSkill))
	}
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.reset(StateIdle, "", Draft{})
	}
	c.mu.Unlock()
	return id, nil
}

func (d Draft) toEntryDraft() (model.EntryDraft, error) {
	skill, err := strconv.Atoi(strings.TrimSpace(d.DriverSkill))
	if err != nil {
		return model.EntryDraft{}, &model.ValidationError{Field: string(FieldDriverSkill), Message: "must be a number"}
	}
	return model.EntryDraft{
		ScoutName:       d.ScoutName,
		TeamNumber:      strings.TrimSpace(d.TeamNumber),
		MatchNumber:     strings.TrimSpace(d.MatchNumber),
		TeamName:        strings.TrimSpace(d.TeamName),
		DriverSkill:     skill,
		AutonomousNotes: d.AutonomousNotes,
		TeleopNotes:     d.TeleopNotes,
		GeneralNotes:    d.GeneralNotes,
	}, nil
}

// toPatch sends every editable field; the scout name is never part of an edit
func (d Draft) toPatch(skill int) model.EntryPatch {
	teamNumber := strings.TrimSpace(d.TeamNumber)
	matchNumber := strings.TrimSpace(d.MatchNumber)
	teamName := strings.TrimSpace(d.TeamName)
	return model.EntryPatch{
		TeamNumber:      &teamNumber,
		MatchNumber:     &matchNumber,
		TeamName:        &teamName,
		DriverSkill:     &skill,
		AutonomousNotes: &d.AutonomousNotes,
		TeleopNotes:     &d.TeleopNotes,
		GeneralNotes:    &d.GeneralNotes,
	}
}
