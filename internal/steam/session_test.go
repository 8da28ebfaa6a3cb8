package steam

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"reflect"
	"testing"

	"workshopupload/internal/platform"
	"workshopupload/internal/runner"
)

const steamPath = "/tools/steamcmd/steamcmd.sh"

func newManager(t *testing.T, code runner.ExitCode) (*SessionManager, *fakeRunner, *fakeProvisioner) {
	t.Helper()
	fr := &fakeRunner{code: code}
	fp := &fakeProvisioner{path: steamPath}
	m := &SessionManager{
		Tools: fp,
		Store: &CredentialStore{
			InstallRoot: t.TempDir(),
			Platform:    platform.Linux,
			Getenv:      envFunc(nil),
		},
		Runner: fr,
	}
	return m, fr, fp
}

func TestSelectStrategyPrecedence(t *testing.T) {
	cases := []struct {
		creds Credentials
		want  Strategy
	}{
		{Credentials{TOTP: "1", Password: "p", SessionBlob: "b"}, StrategyTOTP},
		{Credentials{Password: "p", SessionBlob: "b"}, StrategyPassword},
		{Credentials{SessionBlob: "b"}, StrategySessionBlob},
		{Credentials{}, StrategyCached},
	}
	for _, tc := range cases {
		if got := SelectStrategy(tc.creds); got != tc.want {
			t.Errorf("SelectStrategy(%+v) = %s, want %s", tc.creds, got, tc.want)
		}
	}
}

func TestLoginTOTPWithoutPassword(t *testing.T) {
	m, fr, fp := newManager(t, 0)
	err := m.Login(context.Background(), "user", Credentials{TOTP: "123456"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(fr.calls) != 0 || fp.calls != 0 {
		t.Fatalf("expected no subprocess or provisioning, got %d runs %d provisions", len(fr.calls), fp.calls)
	}
	if m.State() != Failed {
		t.Fatalf("expected failed state, got %s", m.State())
	}
}

func TestLoginTOTPArguments(t *testing.T) {
	for _, code := range []runner.ExitCode{0, 7} {
		m, fr, _ := newManager(t, code)
		if err := m.Login(context.Background(), "user", Credentials{TOTP: "123456", Password: "pw"}); err != nil {
			t.Fatalf("exit %s: unexpected error %v", code, err)
		}
		want := []string{"+@ShutdownOnFailedCommand", "1", "+set_steam_guard_code", "123456", "+login", "user", "pw", "+quit"}
		if len(fr.calls) != 1 || fr.calls[0].command != steamPath || !reflect.DeepEqual(fr.calls[0].args, want) {
			t.Fatalf("unexpected invocation %+v", fr.calls)
		}
		if m.State() != Authenticated {
			t.Fatalf("expected authenticated state, got %s", m.State())
		}
	}
}

func TestLoginTOTPRejected(t *testing.T) {
	m, _, _ := newManager(t, 1)
	err := m.Login(context.Background(), "user", Credentials{TOTP: "123456", Password: "pw"})
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("expected ErrLogin, got %v", err)
	}
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Code != 1 || loginErr.Strategy != StrategyTOTP {
		t.Fatalf("expected LoginError carrying code 1, got %v", err)
	}
}

func TestLoginUnknownExitIsFailure(t *testing.T) {
	m, _, _ := newManager(t, runner.Unknown)
	err := m.Login(context.Background(), "user", Credentials{Password: "pw"})
	if !errors.Is(err, ErrLogin) {
		t.Fatalf("expected ErrLogin for unknown exit, got %v", err)
	}
}

func TestLoginPassword(t *testing.T) {
	m, fr, _ := newManager(t, 0)
	if err := m.Login(context.Background(), "user", Credentials{Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	want := []string{"+@ShutdownOnFailedCommand", "1", "+login", "user", "pw", "+quit"}
	if !reflect.DeepEqual(fr.calls[0].args, want) {
		t.Fatalf("unexpected args %v", fr.calls[0].args)
	}
}

func TestLoginSessionBlobWritesConfig(t *testing.T) {
	m, fr, _ := newManager(t, 0)
	contents := "\"InstallConfigStore\"\n{\n}\n"
	blob := base64.StdEncoding.EncodeToString([]byte(contents))

	if err := m.Login(context.Background(), "user", Credentials{SessionBlob: blob}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	written, err := os.ReadFile(m.Store.InstallConfigPath())
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if string(written) != contents {
		t.Fatalf("config not written verbatim: %q", written)
	}
	want := []string{"+@ShutdownOnFailedCommand", "1", "+login", "user", "+quit"}
	if !reflect.DeepEqual(fr.calls[0].args, want) {
		t.Fatalf("unexpected args %v", fr.calls[0].args)
	}
}

func TestLoginSessionBlobInvalid(t *testing.T) {
	m, fr, _ := newManager(t, 0)
	err := m.Login(context.Background(), "user", Credentials{SessionBlob: "not base64!"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("expected no subprocess, got %+v", fr.calls)
	}
}

func TestLoginCachedSession(t *testing.T) {
	m, fr, fp := newManager(t, 1)
	writeConfig(t, m.Store.InstallConfigPath(), `"user"`)

	if err := m.Login(context.Background(), "user", Credentials{}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("cached session must not spawn, got %+v", fr.calls)
	}
	if fp.calls != 1 {
		t.Fatalf("expected provisioning once, got %d", fp.calls)
	}
}

func TestLoginNoCredentials(t *testing.T) {
	m, fr, _ := newManager(t, 0)
	err := m.Login(context.Background(), "user", Credentials{})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if len(fr.calls) != 0 {
		t.Fatalf("expected no subprocess, got %+v", fr.calls)
	}
}

func TestLoginLaunchErrorPropagates(t *testing.T) {
	m, fr, _ := newManager(t, runner.Unknown)
	fr.err = &runner.LaunchError{Command: steamPath, Err: errors.New("exec format error")}
	err := m.Login(context.Background(), "user", Credentials{Password: "pw"})
	if !errors.Is(err, runner.ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
}

func TestLoginProvisioningFailure(t *testing.T) {
	m, fr, fp := newManager(t, 0)
	fp.err = errors.New("offline")
	if err := m.Login(context.Background(), "user", Credentials{Password: "pw"}); err == nil {
		t.Fatalf("expected provisioning error")
	}
	if len(fr.calls) != 0 {
		t.Fatalf("expected no subprocess, got %+v", fr.calls)
	}
}

func TestUpdate(t *testing.T) {
	m, fr, _ := newManager(t, 7)
	if err := m.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{"+@ShutdownOnFailedCommand", "1", "+login", "anonymous", "+quit"}
	if !reflect.DeepEqual(fr.calls[0].args, want) {
		t.Fatalf("unexpected args %v", fr.calls[0].args)
	}

	m, _, _ = newManager(t, 2)
	err := m.Update(context.Background())
	var updateErr *UpdateError
	if !errors.As(err, &updateErr) || updateErr.Code != 2 {
		t.Fatalf("expected UpdateError with code 2, got %v", err)
	}
}
