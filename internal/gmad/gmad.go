// Package gmad packages an addon directory into a .gma archive with fastgmad.
package gmad

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"workshopupload/internal/logx"
	"workshopupload/internal/runner"
	"workshopupload/internal/tools"
)

// ErrPackaging is the sentinel wrapped by PackagingError.
var ErrPackaging = errors.New("packaging failed")

// PackagingError carries the packager's exit code.
type PackagingError struct {
	Folder string
	Code   runner.ExitCode
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("failed to package %s (exit code %s)", e.Folder, e.Code)
}

func (e *PackagingError) Unwrap() error { return ErrPackaging }

// Provisioner resolves a tool to an installed executable path.
type Provisioner interface {
	EnsureInstalled(ctx context.Context, tool tools.Descriptor) (string, error)
}

// Packager runs the packaging tool.
type Packager struct {
	Tools  Provisioner
	Runner runner.Runner
	Logger logx.Logger
}

// Package writes folder into an archive at output and returns the absolute
// archive path. The output's parent directory is created first.
func (p *Packager) Package(ctx context.Context, folder, output string) (string, error) {
	def, _ := tools.Definition(tools.FastGMAD)
	executable, err := p.Tools.EnsureInstalled(ctx, def)
	if err != nil {
		return "", err
	}

	out, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	args := []string{"create", "-warninvalid", "-folder", folder, "-out", out}
	p.logger().Printf("packaging %s into %s", folder, out)
	code, err := p.Runner.Run(ctx, executable, args, runner.RunOptions{})
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", &PackagingError{Folder: folder, Code: code}
	}
	return out, nil
}

func (p *Packager) logger() logx.Logger {
	if p.Logger == nil {
		return logx.Nop()
	}
	return p.Logger
}
