package cli

import (
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team statistics commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the scouted teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Teams(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats <team-number>",
		Short: "Show the statistics of one team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.TeamStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "compare <team-number>...",
		Short: "Compare several teams side by side",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Compare(cmd.Context(), args)
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
