package steam

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"workshopupload/internal/logx"
	"workshopupload/internal/runner"
	"workshopupload/internal/tools"
)

var (
	// ErrInvalidCredentials is the sentinel wrapped by InvalidCredentialsError.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoCredentials is the sentinel wrapped by NoCredentialsError.
	ErrNoCredentials = errors.New("no login method provided")
	// ErrLogin is the sentinel wrapped by LoginError.
	ErrLogin = errors.New("steam login failed")
	// ErrUpdate is the sentinel wrapped by UpdateError.
	ErrUpdate = errors.New("steamcmd update failed")
)

// InvalidCredentialsError reports credential material that cannot be used,
// such as a TOTP code without a password.
type InvalidCredentialsError struct {
	Reason string
}

func (e *InvalidCredentialsError) Error() string { return e.Reason }

func (e *InvalidCredentialsError) Unwrap() error { return ErrInvalidCredentials }

// NoCredentialsError is returned when no strategy applies and the account has
// no cached session.
type NoCredentialsError struct {
	Username string
}

func (e *NoCredentialsError) Error() string {
	return fmt.Sprintf("no login method provided and %q has no cached session", e.Username)
}

func (e *NoCredentialsError) Unwrap() error { return ErrNoCredentials }

// LoginError carries the console client's exit code for a rejected login.
type LoginError struct {
	Strategy Strategy
	Code     runner.ExitCode
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("failed to login to Steam using %s (exit code %s)", e.Strategy, e.Code)
}

func (e *LoginError) Unwrap() error { return ErrLogin }

// UpdateError carries the console client's exit code for a failed anonymous
// update.
type UpdateError struct {
	Code runner.ExitCode
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("failed to update SteamCMD (exit code %s)", e.Code)
}

func (e *UpdateError) Unwrap() error { return ErrUpdate }

// Credentials holds at most one meaningful login strategy. TOTP also requires
// Password.
type Credentials struct {
	Password    string
	TOTP        string
	SessionBlob string
}

// Strategy is the login method chosen for a set of credentials.
type Strategy int

const (
	StrategyCached Strategy = iota
	StrategyTOTP
	StrategyPassword
	StrategySessionBlob
)

func (s Strategy) String() string {
	switch s {
	case StrategyTOTP:
		return "TOTP"
	case StrategyPassword:
		return "password"
	case StrategySessionBlob:
		return "VDF"
	default:
		return "cached session"
	}
}

// SelectStrategy applies the fixed precedence TOTP, password, session blob,
// cached session.
func SelectStrategy(creds Credentials) Strategy {
	switch {
	case creds.TOTP != "":
		return StrategyTOTP
	case creds.Password != "":
		return StrategyPassword
	case creds.SessionBlob != "":
		return StrategySessionBlob
	default:
		return StrategyCached
	}
}

// Validate rejects credential combinations no strategy can use.
func (c Credentials) Validate() error {
	if c.TOTP != "" && c.Password == "" {
		return &InvalidCredentialsError{Reason: "TOTP requires a password"}
	}
	return nil
}

// State is the session manager's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// Provisioner resolves a tool to an installed executable path.
type Provisioner interface {
	EnsureInstalled(ctx context.Context, tool tools.Descriptor) (string, error)
}

// SessionManager drives the console client through login and update.
type SessionManager struct {
	Tools  Provisioner
	Store  *CredentialStore
	Runner runner.Runner
	Logger logx.Logger

	state State
}

// State reports the outcome of the most recent Login.
func (m *SessionManager) State() State { return m.state }

// Login authenticates username with the first applicable strategy. The
// console client is provisioned first when missing.
func (m *SessionManager) Login(ctx context.Context, username string, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		m.state = Failed
		return err
	}

	m.state = Authenticating
	if err := m.login(ctx, username, creds); err != nil {
		m.state = Failed
		return err
	}
	m.state = Authenticated
	return nil
}

func (m *SessionManager) login(ctx context.Context, username string, creds Credentials) error {
	client, err := m.client(ctx)
	if err != nil {
		return err
	}

	strategy := SelectStrategy(creds)
	m.logger().Printf("logging into Steam as %s using %s", username, strategy)

	var (
		directives []string
		secrets    []string
	)
	switch strategy {
	case StrategyTOTP:
		directives = []string{"+set_steam_guard_code", creds.TOTP, "+login", username, creds.Password}
		secrets = []string{creds.TOTP, creds.Password}
	case StrategyPassword:
		directives = []string{"+login", username, creds.Password}
		secrets = []string{creds.Password}
	case StrategySessionBlob:
		if err := m.writeSessionBlob(creds.SessionBlob); err != nil {
			return err
		}
		directives = []string{"+login", username}
	default:
		if m.Store.IsAuthenticated(username) {
			m.logger().Printf("using cached session for %s", username)
			return nil
		}
		return &NoCredentialsError{Username: username}
	}

	code, err := client.Run(ctx, directives, secrets...)
	if err != nil {
		return err
	}
	if !Accepted(code) {
		return &LoginError{Strategy: strategy, Code: code}
	}
	return nil
}

// Update refreshes the console client with an anonymous session.
func (m *SessionManager) Update(ctx context.Context) error {
	client, err := m.client(ctx)
	if err != nil {
		return err
	}
	m.logger().Printf("updating SteamCMD")
	code, err := client.Run(ctx, []string{"+login", "anonymous"})
	if err != nil {
		return err
	}
	if !Accepted(code) {
		return &UpdateError{Code: code}
	}
	return nil
}

// IsAuthenticated reports whether username has a cached session.
func (m *SessionManager) IsAuthenticated(username string) bool {
	return m.Store.IsAuthenticated(username)
}

func (m *SessionManager) writeSessionBlob(blob string) error {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return &InvalidCredentialsError{Reason: fmt.Sprintf("session blob is not valid base64: %v", err)}
	}
	path := m.Store.InstallConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare steam config directory: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0o600); err != nil {
		return fmt.Errorf("write steam config: %w", err)
	}
	m.logger().Printf("wrote session config to %s", path)
	return nil
}

func (m *SessionManager) client(ctx context.Context) (*Client, error) {
	def, _ := tools.Definition(tools.SteamCMD)
	path, err := m.Tools.EnsureInstalled(ctx, def)
	if err != nil {
		return nil, err
	}
	return &Client{Path: path, Runner: m.Runner, Logger: m.Logger}, nil
}

func (m *SessionManager) logger() logx.Logger {
	if m.Logger == nil {
		return logx.Nop()
	}
	return m.Logger
}
