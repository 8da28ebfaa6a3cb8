package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	projectDir string
	outputJSON bool
	verbose    bool
	logDir     string
	toolsDir   string
)

// Execute runs the root cobra command.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "workshop-upload",
		Short:         "Package and publish Garry's Mod addons to the Steam Workshop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Base directory for workshop.yaml and the item manifest (default: working directory)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show informational narration")
	cmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Also write a timestamped log file into this directory")
	cmd.PersistentFlags().StringVar(&toolsDir, "tools-dir", "", "Install root for SteamCMD and fastgmad (env WORKSHOP_TOOLS_DIR)")

	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newPackageCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newValidateCmd())

	convertCmd := newConvertCmd()
	cmd.AddCommand(convertCmd)
	// convert works on a standalone file; project-level flags don't apply.
	for _, name := range []string{"project", "json", "log-dir", "tools-dir"} {
		if f := convertCmd.InheritedFlags().Lookup(name); f != nil {
			f.Hidden = true
		}
	}

	return cmd
}
