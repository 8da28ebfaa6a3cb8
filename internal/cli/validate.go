package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workshopupload/internal/config"
	"workshopupload/internal/paths"
	"workshopupload/internal/tui"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check workshop.yaml against the addon on disk",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ws, cfg, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	exists, err := paths.FileExists(ws.ConfigFile)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if !exists {
		return fmt.Errorf("no %s in %s (run init first)", config.FileName, ws.Root)
	}

	results := cfg.ValidateStrict(ws.Root)
	if outputJSON {
		if err := writeJSON(cmd, results); err != nil {
			return err
		}
	} else if len(results) == 0 {
		cmd.Println(tui.SuccessStyle.Render("ok") + " " + ws.ConfigFile)
	} else {
		for _, r := range results {
			style := tui.StatusStyle("warning")
			if r.Level == "error" {
				style = tui.ErrorStyle
			}
			cmd.Printf("%s %s\n", style.Render(fmt.Sprintf("%-7s", r.Level)), r.Message)
		}
	}

	if config.HasErrors(results) {
		return fmt.Errorf("%s has errors", config.FileName)
	}
	return nil
}
