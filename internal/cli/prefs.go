package cli

import (
	"github.com/spf13/cobra"

	"github.com/itobot/scout/internal/workspace"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Local preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(workspace.ThemeLight), string(workspace.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := workspace.LoadPreferences(cfg.PreferencesPath())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				if err := prefs.SetTheme(workspace.Theme(args[0])); err != nil {
					return err
				}
			}

			output(cmd).Print(ThemeResult{Theme: prefs.Theme()})
			return nil
		},
	})

	return cmd
}
