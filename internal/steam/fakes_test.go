package steam

import (
	"context"

	"workshopupload/internal/runner"
	"workshopupload/internal/tools"
)

type runCall struct {
	command string
	args    []string
}

type fakeRunner struct {
	code  runner.ExitCode
	err   error
	calls []runCall
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, _ runner.RunOptions) (runner.ExitCode, error) {
	f.calls = append(f.calls, runCall{command: command, args: append([]string(nil), args...)})
	return f.code, f.err
}

type fakeProvisioner struct {
	path  string
	err   error
	calls int
}

func (f *fakeProvisioner) EnsureInstalled(_ context.Context, tool tools.Descriptor) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}
