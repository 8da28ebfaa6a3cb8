package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"workshopupload/internal/logx"
	"workshopupload/internal/tools"
	"workshopupload/internal/tui"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage SteamCMD and fastgmad",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsInstallCmd())

	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resolved tool paths and install records",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	statuses, err := env.tools.Detect()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(cmd, statuses)
	}
	printStatusTable(cmd, statuses)
	return nil
}

func newToolsInstallCmd() *cobra.Command {
	var (
		force      bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "install [tool|all]",
		Short: "Download and extract managed tools",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToolsInstall(cmd, args, force, noProgress)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Reinstall even if the executable is present")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress table")

	return cmd
}

func selectTools(args []string) ([]tools.Descriptor, error) {
	target := "all"
	if len(args) == 1 {
		target = strings.ToLower(args[0])
	}
	if target == "all" {
		var defs []tools.Descriptor
		for _, name := range tools.KnownTools() {
			def, _ := tools.Definition(name)
			defs = append(defs, def)
		}
		return defs, nil
	}
	def, ok := tools.Definition(target)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", target)
	}
	return []tools.Descriptor{def}, nil
}

func runToolsInstall(cmd *cobra.Command, args []string, force, noProgress bool) error {
	defs, err := selectTools(args)
	if err != nil {
		return err
	}

	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	install := func(ctx context.Context, def tools.Descriptor) (string, error) {
		if force {
			return env.tools.Install(ctx, def)
		}
		return env.tools.EnsureInstalled(ctx, def)
	}

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)
	if mode == tui.ModeTUI {
		// Terminal narration would tear the table; keep only the log file.
		env.tools.Logger = logx.Multi(env.fileLog)

		model := tui.NewTaskModel("Installing tools into " + env.ws.ToolsRoot)
		for _, def := range defs {
			model.AddTask(def.Name, def.Name)
		}
		return tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) error {
			var errs []error
			for _, def := range defs {
				send(tui.TaskUpdateMsg{Key: def.Name, Status: "downloading", Detail: def.URL(env.target)})
				path, err := install(cmd.Context(), def)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", def.Name, err))
					send(tui.TaskUpdateMsg{Key: def.Name, Status: "error", Detail: err.Error()})
					continue
				}
				send(tui.TaskUpdateMsg{Key: def.Name, Status: "installed", Detail: path})
			}
			return errors.Join(errs...)
		})
	}

	var errs []error
	for _, def := range defs {
		if _, err := install(cmd.Context(), def); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", def.Name, err))
		}
	}
	statuses, err := env.tools.Detect()
	if err != nil {
		errs = append(errs, err)
	}
	if mode == tui.ModeJSON {
		if err := writeJSON(cmd, statuses); err != nil {
			return err
		}
	} else {
		printStatusTable(cmd, statuses)
	}
	return errors.Join(errs...)
}

func printStatusTable(cmd *cobra.Command, statuses []tools.Status) {
	if len(statuses) == 0 {
		cmd.Println("(no tool statuses)")
		return
	}

	cmd.Println(tui.HeaderStyle.Render(fmt.Sprintf("%-10s %-10s %-18s %s", "Tool", "Status", "Checksum", "Path")))
	for _, st := range statuses {
		state := "missing"
		if st.Installed {
			state = "installed"
		}
		checksum := st.Checksum
		if len(checksum) > 16 {
			checksum = checksum[:16]
		}
		cmd.Printf("%-10s %s %-18s %s\n", st.Tool, tui.StatusStyle(state).Render(fmt.Sprintf("%-10s", state)), tui.NonEmptyOrDash(checksum), st.Path)
		if st.Error != "" {
			cmd.Printf("  %s\n", tui.ErrorStyle.Render("error: "+st.Error))
		}
	}
}
