package steam

import (
	"context"
	"strings"

	"workshopupload/internal/logx"
	"workshopupload/internal/runner"
)

// AcceptCodes are the console client exit codes treated as success. Code 7 is
// reported when the session is already satisfied.
var AcceptCodes = []runner.ExitCode{0, 7}

// Accepted reports whether code is in AcceptCodes.
func Accepted(code runner.ExitCode) bool {
	return code.In(AcceptCodes...)
}

const redacted = "****"

// Client drives one console client executable.
type Client struct {
	Path   string
	Runner runner.Runner
	Logger logx.Logger
}

// Args builds the full argument list: the shutdown-on-failure guard, the
// given directives, then quit.
func Args(directives ...string) []string {
	args := make([]string, 0, len(directives)+3)
	args = append(args, "+@ShutdownOnFailedCommand", "1")
	args = append(args, directives...)
	return append(args, "+quit")
}

// Run executes directives. Values listed in secrets are masked in the log
// line but passed to the process unchanged.
func (c *Client) Run(ctx context.Context, directives []string, secrets ...string) (runner.ExitCode, error) {
	args := Args(directives...)
	c.logger().Printf("running %s %s", c.Path, strings.Join(redact(args, secrets), " "))
	code, err := c.Runner.Run(ctx, c.Path, args, runner.RunOptions{})
	if err != nil {
		return code, err
	}
	c.logger().Printf("%s exited with code %s", c.Path, code)
	return code, nil
}

func (c *Client) logger() logx.Logger {
	if c.Logger == nil {
		return logx.Nop()
	}
	return c.Logger
}

func redact(args, secrets []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		for _, secret := range secrets {
			if secret != "" && arg == secret {
				out[i] = redacted
				break
			}
		}
	}
	return out
}
