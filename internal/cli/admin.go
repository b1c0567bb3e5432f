package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin-only commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show the headline figures of all entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Summary(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(newAdminExportCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "users",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "role <uid> <admin|user>",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := model.Role(args[1])
			if !role.Valid() {
				return fmt.Errorf("unknown role %q, want admin or user", args[1])
			}
			result, err := client.SetRole(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func newAdminExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every entry as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, data, err := client.Export(cmd.Context())
			if err != nil {
				return err
			}

			var doc response.Export
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("export is not a valid document: %w", err)
			}

			if file == "" {
				file = filepath.Base(name)
			}
			if file == "" || file == "." || file == string(filepath.Separator) {
				return fmt.Errorf("server did not suggest a file name, pass --file")
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return err
			}

			output(cmd).Print(ExportResult{File: file, TotalEntries: doc.TotalEntries, Bytes: len(data)})
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this path instead of the server's file name")

	return cmd
}
