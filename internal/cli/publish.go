package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workshopupload/internal/bbcode"
	"workshopupload/internal/logx"
	"workshopupload/internal/pipeline"
	"workshopupload/internal/steam"
	"workshopupload/internal/tui"
	"workshopupload/internal/workshop"
)

var publishInputs = append([]input{
	inID, inChangelog, inMarkdownChangelog, inIcon, inTitle, inDescription,
	inMarkdownDescription, inFolder, inVisibility, inOutput, inAppID,
}, credentialInputs...)

func newPublishCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Package an addon folder and publish it to the workshop",
		Long: `Provision SteamCMD, update it, log in, package the addon with fastgmad and
submit the archive's directory as a workshop item. Without --id a new item is
created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, dryRun)
		},
	}

	addCredentialFlags(cmd)
	cmd.Flags().StringP(inFolder.flag, "f", "", "Addon source folder (env ADDON_DIR)")
	cmd.Flags().StringP(inID.flag, "i", "", "Existing workshop item id; empty creates a new item (env ADDON_ID)")
	cmd.Flags().String(inIcon.flag, "", "Preview image path (env ADDON_ICON)")
	cmd.Flags().String(inTitle.flag, "", "Item title (env ADDON_TITLE)")
	cmd.Flags().String(inDescription.flag, "", "Item description in BBCode (env ADDON_DESCRIPTION)")
	cmd.Flags().String(inMarkdownDescription.flag, "", "Item description in markdown (env ADDON_MARKDOWN_DESCRIPTION)")
	cmd.Flags().String(inChangelog.flag, "", "Change note in BBCode (env ADDON_CHANGELOG)")
	cmd.Flags().String(inMarkdownChangelog.flag, "", "Change note in markdown (env ADDON_MARKDOWN_CHANGELOG)")
	cmd.Flags().String(inVisibility.flag, "", "public, friends, private, unlisted or 0-3 (env ADDON_VISIBILITY)")
	cmd.Flags().StringP(inOutput.flag, "o", "", "Archive output path (default: <tmp>/addon/addon.gma)")
	cmd.Flags().String(inAppID.flag, "", "Steam application id (default: 4000)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the item manifest without packaging or uploading")

	return cmd
}

func runPublish(cmd *cobra.Command, dryRun bool) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	v, err := bindInputs(cmd, env.configDefaults(), publishInputs...)
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, env, v)
	if err != nil {
		return err
	}
	if err := pipeline.Validate(req); err != nil {
		return err
	}

	if dryRun {
		return printDryRun(cmd, req, env.ws.ManifestFile)
	}

	stageIndex := make(map[pipeline.Stage]int, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		stageIndex[stage] = i + 1
	}
	spinner := tui.DetectMode(cmd.ErrOrStderr(), verbose, outputJSON) == tui.ModeTUI
	var status *tui.StatusWriter
	stopStatus := func() {
		if status != nil {
			status.Stop()
			status = nil
			env.tools.Logger = env.logger
		}
	}
	onStage := func(stage pipeline.Stage) {
		stopStatus()
		if outputJSON {
			return
		}
		fmt.Fprintln(cmd.ErrOrStderr(), tui.Stage(stageIndex[stage], len(pipeline.Stages), string(stage)))
		// Only provisioning stages run without a child on the terminal.
		if spinner && (stage == pipeline.StageProvisionClient || stage == pipeline.StageProvisionPackager) {
			status = tui.NewStatusWriter(cmd.ErrOrStderr())
			status.Update(string(stage))
			env.tools.Logger = logx.Multi(status, env.fileLog)
		}
	}

	result, err := env.pipeline(onStage).Run(cmd.Context(), req)
	stopStatus()
	if err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, result)
	}
	cmd.Println(tui.SuccessStyle.Render("Published") + " " + result.Archive)
	cmd.Println(tui.FaintStyle.Render("content folder: " + result.ContentFolder))
	return nil
}

func buildRequest(cmd *cobra.Command, env *environment, v *viper.Viper) (pipeline.Request, error) {
	username, err := requireUsername(v)
	if err != nil {
		return pipeline.Request{}, err
	}

	conv := bbcode.New()
	description, err := resolveText(cmd, v, inDescription, inMarkdownDescription, conv)
	if err != nil {
		return pipeline.Request{}, err
	}
	changelog, err := resolveText(cmd, v, inChangelog, inMarkdownChangelog, conv)
	if err != nil {
		return pipeline.Request{}, err
	}
	visibility, err := workshop.ParseVisibility(v.GetString(inVisibility.flag))
	if err != nil {
		return pipeline.Request{}, err
	}

	return pipeline.Request{
		Username: username,
		Credentials: steam.Credentials{
			Password:    v.GetString(inPassword.flag),
			TOTP:        v.GetString(inTOTP.flag),
			SessionBlob: v.GetString(inVDF.flag),
		},
		Folder: env.ws.Abs(v.GetString(inFolder.flag)),
		Output: env.ws.Abs(v.GetString(inOutput.flag)),
		Item: workshop.Options{
			AppID:       v.GetString(inAppID.flag),
			ID:          v.GetString(inID.flag),
			Changelog:   changelog,
			Icon:        env.ws.Abs(v.GetString(inIcon.flag)),
			Title:       v.GetString(inTitle.flag),
			Description: description,
			Visibility:  visibility,
		},
	}, nil
}

// resolveText picks the plain or markdown variant of a text field. A variant
// given on the command line or in the environment hides the other variant's
// project config value.
func resolveText(cmd *cobra.Command, v *viper.Viper, plain, markdown input, conv pipeline.Converter) (string, error) {
	plainValue := v.GetString(plain.flag)
	markdownValue := v.GetString(markdown.flag)
	switch {
	case explicit(cmd, markdown) && !explicit(cmd, plain):
		plainValue = ""
	case explicit(cmd, plain) && !explicit(cmd, markdown):
		markdownValue = ""
	}
	return pipeline.ResolveText(plain.flag, plainValue, markdownValue, conv)
}

func explicit(cmd *cobra.Command, in input) bool {
	if f := lookupFlag(cmd, in.flag); f != nil && f.Changed {
		return true
	}
	return in.env != "" && os.Getenv(in.env) != ""
}

func printDryRun(cmd *cobra.Command, req pipeline.Request, manifestPath string) error {
	opts := req.Item
	opts.Folder = filepath.Dir(req.Output)
	manifest := workshop.BuildManifest(opts, bbcode.Passthrough{})

	if outputJSON {
		return writeJSON(cmd, struct {
			Username string            `json:"username"`
			Strategy string            `json:"strategy"`
			Folder   string            `json:"folder"`
			Archive  string            `json:"archive"`
			Manifest string            `json:"manifest"`
			Fields   workshop.Manifest `json:"fields"`
		}{req.Username, steam.SelectStrategy(req.Credentials).String(), req.Folder, req.Output, manifestPath, manifest})
	}

	cmd.Println(tui.HeaderStyle.Render("Dry run") + " " + tui.FaintStyle.Render(describeLogin(req.Username, req.Credentials)))
	cmd.Printf("package %s -> %s\n", req.Folder, req.Output)
	cmd.Printf("manifest %s\n\n", manifestPath)
	cmd.Println(manifest.String())
	return nil
}

func writeJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
