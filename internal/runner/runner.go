package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
)

// ErrLaunch is the sentinel wrapped by LaunchError.
var ErrLaunch = errors.New("process launch failed")

// Unknown is reported when a process ended without a usable exit status, for
// example when it was killed by a signal.
const Unknown ExitCode = -1

// ExitCode is a process exit status. Unknown never counts as success.
type ExitCode int

// Known reports whether the process produced a real exit status.
func (c ExitCode) Known() bool { return c >= 0 }

// In reports whether c is a known code contained in accept.
func (c ExitCode) In(accept ...ExitCode) bool {
	return c.Known() && slices.Contains(accept, c)
}

func (c ExitCode) String() string {
	if !c.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(c))
}

// LaunchError is returned when a process could not be started or failed
// before producing an exit status.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Command, e.Err)
}

// Unwrap exposes both ErrLaunch and the underlying cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunch, e.Err} }

// RunOptions controls the child's environment. Nil streams fall back to the
// parent's standard streams so interactive prompts reach the operator.
type RunOptions struct {
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner spawns an executable and resolves to its exit code.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (ExitCode, error)
}

// CmdRunner runs processes with os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (ExitCode, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	cmd.Stdin = opts.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = opts.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return Unknown, &LaunchError{Command: command, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitCode(exitErr.ExitCode()), nil
	}
	return Unknown, &LaunchError{Command: command, Err: err}
}

var _ Runner = CmdRunner{}
