package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// input binds one command flag to its environment variable.
type input struct {
	flag string
	env  string
}

var (
	inUsername            = input{"username", "STEAM_USERNAME"}
	inPassword            = input{"password", "STEAM_PASSWORD"}
	inTOTP                = input{"totp", "STEAM_TOTP"}
	inVDF                 = input{"vdf", "STEAM_VDF"}
	inID                  = input{"id", "ADDON_ID"}
	inChangelog           = input{"changelog", "ADDON_CHANGELOG"}
	inMarkdownChangelog   = input{"markdown-changelog", "ADDON_MARKDOWN_CHANGELOG"}
	inIcon                = input{"icon", "ADDON_ICON"}
	inTitle               = input{"title", "ADDON_TITLE"}
	inDescription         = input{"description", "ADDON_DESCRIPTION"}
	inMarkdownDescription = input{"markdown-description", "ADDON_MARKDOWN_DESCRIPTION"}
	inFolder              = input{"folder", "ADDON_DIR"}
	inVisibility          = input{"visibility", "ADDON_VISIBILITY"}
	inOutput              = input{"output", ""}
	inAppID               = input{"app-id", ""}
	inToolsDir            = input{"tools-dir", "WORKSHOP_TOOLS_DIR"}
)

var credentialInputs = []input{inUsername, inPassword, inTOTP, inVDF}

// bindInputs layers a changed flag over its environment variable over the
// project config value in defaults. Empty environment values count as unset.
func bindInputs(cmd *cobra.Command, defaults map[string]string, inputs ...input) (*viper.Viper, error) {
	v := viper.New()
	for _, in := range inputs {
		if f := lookupFlag(cmd, in.flag); f != nil {
			if err := v.BindPFlag(in.flag, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", in.flag, err)
			}
		}
		if in.env != "" {
			if err := v.BindEnv(in.flag, in.env); err != nil {
				return nil, fmt.Errorf("bind env %s: %w", in.env, err)
			}
		}
		if value := defaults[in.flag]; value != "" {
			v.SetDefault(in.flag, value)
		}
	}
	return v, nil
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(inUsername.flag, "u", "", "Steam account name (env STEAM_USERNAME)")
	cmd.Flags().StringP(inPassword.flag, "p", "", "Steam password (env STEAM_PASSWORD)")
	cmd.Flags().String(inTOTP.flag, "", "Steam Guard code, requires --password (env STEAM_TOTP)")
	cmd.Flags().String(inVDF.flag, "", "Base64 encoded config.vdf session (env STEAM_VDF)")
}

func requireUsername(v *viper.Viper) (string, error) {
	username := v.GetString(inUsername.flag)
	if username == "" {
		return "", fmt.Errorf("a Steam username is required (--username or STEAM_USERNAME)")
	}
	return username, nil
}
