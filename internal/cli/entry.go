package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/form"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/stats"
	"github.com/itobot/scout/internal/workspace"
)

// lookupWait bounds how long add/edit wait for the team-name lookup
const lookupWait = 5 * time.Second

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Scouting entry commands",
	}

	cmd.AddCommand(newEntryListCmd())
	cmd.AddCommand(newEntryAddCmd())
	cmd.AddCommand(newEntryEditCmd())
	cmd.AddCommand(newEntryDeleteCmd())

	return cmd
}

// openWorkspace creates a workspace for the signed-in user backed by the API
func openWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return workspace.New(client, client, user, logger), nil
}

func newEntryListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries you can see, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			out := output(cmd)
			if err := ws.Refresh(cmd.Context()); err != nil {
				out.Warn("could not load entries: " + err.Error())
			}

			list := stats.Search(ws.Entries(), search)
			out.Print(response.EntryList{Entries: response.EntriesFromModel(list)})
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show entries whose team name or number matches")

	return cmd
}

// entryFlags are the form fields settable from the command line
type entryFlags struct {
	teamNumber  string
	matchNumber string
	teamName    string
	driverSkill string
	autonomous  string
	teleop      string
	notes       string
	noLookup    bool
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.teamNumber, "team", "", "Team number")
	cmd.Flags().StringVar(&f.matchNumber, "match", "", "Match number")
	cmd.Flags().StringVar(&f.teamName, "team-name", "", "Team name (looked up from the team number when omitted)")
	cmd.Flags().StringVar(&f.driverSkill, "skill", "", "Driver skill, 1 to 10")
	cmd.Flags().StringVar(&f.autonomous, "auto", "", "Autonomous period notes")
	cmd.Flags().StringVar(&f.teleop, "teleop", "", "Teleop period notes")
	cmd.Flags().StringVar(&f.notes, "notes", "", "General notes")
	cmd.Flags().BoolVar(&f.noLookup, "no-lookup", false, "Do not wait for the team name lookup")
}

// apply sets every flag the user passed, team number first so that an
// explicit team name wins over the lookup
func (f *entryFlags) apply(cmd *cobra.Command, c *form.Controller) error {
	fields := []struct {
		flag  string
		field form.Field
		value string
	}{
		{"team", form.FieldTeamNumber, f.teamNumber},
		{"team-name", form.FieldTeamName, f.teamName},
		{"match", form.FieldMatchNumber, f.matchNumber},
		{"skill", form.FieldDriverSkill, f.driverSkill},
		{"auto", form.FieldAutonomousNotes, f.autonomous},
		{"teleop", form.FieldTeleopNotes, f.teleop},
		{"notes", form.FieldGeneralNotes, f.notes},
	}
	for _, fl := range fields {
		if !cmd.Flags().Changed(fl.flag) {
			continue
		}
		if err := c.Set(fl.field, fl.value); err != nil {
			return fmt.Errorf("--%s: %w", fl.flag, err)
		}
	}

	if !f.noLookup && cmd.Flags().Changed("team") && !cmd.Flags().Changed("team-name") {
		ctx, cancel := context.WithTimeout(cmd.Context(), lookupWait)
		defer cancel()
		c.AwaitLookup(ctx)
	}
	return nil
}

func newEntryAddCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new scouting entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			f := ws.Form()
			f.StartNew()
			if err := flags.apply(cmd, f); err != nil {
				return err
			}

			id, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}

			output(cmd).Print(response.CreatedEntry{ID: string(id)})
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("match")

	return cmd
}

func newEntryEditCmd() *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an existing entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.EntryID(args[0])

			entry, err := client.GetEntry(cmd.Context(), id)
			if err != nil {
				return err
			}

			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			f := ws.Form()
			f.StartEdit(entry)
			if err := flags.apply(cmd, f); err != nil {
				return err
			}

			if _, err := f.Submit(cmd.Context()); err != nil {
				return err
			}

			updated, err := client.GetEntry(cmd.Context(), id)
			if err != nil {
				return err
			}
			output(cmd).Print(response.EntryFromModel(updated))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newEntryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.Close()

			id := model.EntryID(args[0])
			if err := ws.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, model.ErrPermissionDenied) {
					return fmt.Errorf("entry %s belongs to another scout: %w", id, err)
				}
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted entry %s (%d remaining)", id, len(ws.Entries())))
			return nil
		},
	}
}
