// Package cli implements the scout command line client
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/workspace"
)

var (
	cfg      *Config
	client   *Client
	identity *workspace.IdentityFeed
	logger   *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	identity = workspace.NewIdentityFeed()

	rootCmd := &cobra.Command{
		Use:   "scout",
		Short: "CLI tool for the scouting API",
		Long: `scout is a CLI tool for recording and reviewing robotics scouting entries.

It talks to the scout server's JSON API: sign in, record and edit match
observations, look at team statistics and, for admins, export the dataset.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SCOUT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: SCOUT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: SCOUT_TOKEN_FILE, default <config-dir>/token)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory for the token and preferences (env: SCOUT_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newEntryCmd())
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newPrefsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// currentUser returns the signed-in user, asking the server the first time
func currentUser(ctx context.Context) (*model.UserProfile, error) {
	if user, known := identity.Current(); known && user != nil {
		return user, nil
	}

	me, err := client.Me(ctx)
	if err != nil {
		identity.Publish(nil)
		return nil, err
	}
	user := me.Model()
	identity.Publish(user)
	return user, nil
}
