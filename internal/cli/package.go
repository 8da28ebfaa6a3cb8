package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workshopupload/internal/tui"
)

func newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Build a .gma archive from an addon folder",
		Args:  cobra.NoArgs,
		RunE:  runPackage,
	}
	cmd.Flags().StringP(inFolder.flag, "f", "", "Addon source folder (env ADDON_DIR)")
	cmd.Flags().StringP(inOutput.flag, "o", "", "Archive output path (default: <tmp>/addon/addon.gma)")
	return cmd
}

func runPackage(cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	v, err := bindInputs(cmd, env.configDefaults(), inFolder, inOutput)
	if err != nil {
		return err
	}
	folder := env.ws.Abs(v.GetString(inFolder.flag))
	if folder == "" {
		return fmt.Errorf("an addon folder is required (--folder or ADDON_DIR)")
	}

	archive, err := env.packager.Package(cmd.Context(), folder, env.ws.Abs(v.GetString(inOutput.flag)))
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(cmd, map[string]string{"folder": folder, "archive": archive})
	}
	cmd.Println(tui.SuccessStyle.Render("Packaged") + " " + archive)
	return nil
}
