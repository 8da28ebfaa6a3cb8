package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workshopupload/internal/config"
	"workshopupload/internal/paths"
)

func newInitCmd() *cobra.Command {
	var (
		force  bool
		folder string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a workshop.yaml into the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := paths.Resolve(projectDir)
			if err != nil {
				return err
			}
			if err := ws.EnsureRoot(); err != nil {
				return err
			}

			exists, err := paths.FileExists(ws.ConfigFile)
			if err != nil {
				return fmt.Errorf("stat config: %w", err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", ws.ConfigFile)
			}

			cfg := config.Default()
			cfg.Addon.Folder = folder
			cfg.Addon.Title = title
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(ws.ConfigFile, data, 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			cmd.Printf("Wrote %s\n", ws.ConfigFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing workshop.yaml")
	cmd.Flags().StringVar(&folder, "folder", "", "Addon source folder, relative to the project")
	cmd.Flags().StringVar(&title, "title", "", "Workshop item title")
	return cmd
}
