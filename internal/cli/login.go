package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workshopupload/internal/steam"
	"workshopupload/internal/tui"
)

func newLoginCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log into Steam and cache the session for later uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, interactive)
		},
	}

	addCredentialFlags(cmd)
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for a password when no credentials or cached session exist")
	return cmd
}

func runLogin(cmd *cobra.Command, interactive bool) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	v, err := bindInputs(cmd, nil, credentialInputs...)
	if err != nil {
		return err
	}
	username, err := requireUsername(v)
	if err != nil {
		return err
	}
	creds := steam.Credentials{
		Password:    v.GetString(inPassword.flag),
		TOTP:        v.GetString(inTOTP.flag),
		SessionBlob: v.GetString(inVDF.flag),
	}

	if interactive && steam.SelectStrategy(creds) == steam.StrategyCached && !env.session.IsAuthenticated(username) {
		if !tui.IsInteractive(cmd.InOrStdin(), cmd.OutOrStdout()) {
			return fmt.Errorf("--interactive requires a terminal")
		}
		password, err := tui.PromptPassword(cmd.InOrStdin(), cmd.OutOrStdout(), "Steam password for "+username)
		if err != nil {
			return err
		}
		creds.Password = password
	}

	if err := env.session.Login(cmd.Context(), username, creds); err != nil {
		return err
	}
	cmd.Println(tui.SuccessStyle.Render("Logged in") + " " + describeLogin(username, creds))
	return nil
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update SteamCMD with an anonymous session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.session.Update(cmd.Context()); err != nil {
				return err
			}
			cmd.Println(tui.SuccessStyle.Render("SteamCMD is up to date"))
			return nil
		},
	}
}

type authStatus struct {
	Username      string `json:"username"`
	Config        string `json:"config,omitempty"`
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect cached Steam sessions",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether an account has a cached session",
		Args:  cobra.NoArgs,
		RunE:  runAuthStatus,
	}
	status.Flags().StringP(inUsername.flag, "u", "", "Steam account name (env STEAM_USERNAME)")

	cmd.AddCommand(status)
	return cmd
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	env, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	v, err := bindInputs(cmd, nil, inUsername)
	if err != nil {
		return err
	}
	username, err := requireUsername(v)
	if err != nil {
		return err
	}

	st := authStatus{Username: username}
	if path, err := env.store.LocateConfig(); err != nil {
		st.Error = err.Error()
	} else {
		st.Config = path
		st.Authenticated = env.store.IsAuthenticated(username)
	}

	if outputJSON {
		return writeJSON(cmd, st)
	}
	cmd.Printf("%-14s %s\n", "Account", username)
	cmd.Printf("%-14s %s\n", "Config", tui.NonEmptyOrDash(st.Config))
	state := "missing"
	if st.Authenticated {
		state = "authenticated"
	}
	cmd.Printf("%-14s %s\n", "Session", tui.StatusStyle(state).Render(state))
	if st.Error != "" {
		cmd.Printf("  %s\n", tui.ErrorStyle.Render(st.Error))
	}
	return nil
}
