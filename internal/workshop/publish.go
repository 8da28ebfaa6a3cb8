package workshop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"workshopupload/internal/logx"
	"workshopupload/internal/runner"
	"workshopupload/internal/steam"
	"workshopupload/internal/tools"
)

// ManifestFileName is the file the manifest is written to inside the base
// directory.
const ManifestFileName = "addon.vdf"

var (
	// ErrPublish is the sentinel wrapped by PublishError.
	ErrPublish = errors.New("publish failed")
	// ErrNotAuthenticated is the sentinel wrapped by NotAuthenticatedError.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidPath is the sentinel wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid path")
)

// PublishError carries the console client's exit code for a rejected upload.
type PublishError struct {
	Code runner.ExitCode
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish addon (exit code %s)", e.Code)
}

func (e *PublishError) Unwrap() error { return ErrPublish }

// NotAuthenticatedError is returned when the account has no cached session.
type NotAuthenticatedError struct {
	Username string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("%s is not authenticated with Steam", e.Username)
}

func (e *NotAuthenticatedError) Unwrap() error { return ErrNotAuthenticated }

// InvalidPathError reports a path that must be absolute but is not.
type InvalidPathError struct {
	Field string
	Path  string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s must be an absolute path: %q", e.Field, e.Path)
}

func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Provisioner resolves a tool to an installed executable path.
type Provisioner interface {
	EnsureInstalled(ctx context.Context, tool tools.Descriptor) (string, error)
}

// Authenticator answers whether an account has a cached session.
type Authenticator interface {
	IsAuthenticated(username string) bool
}

// Publisher submits a packaged addon to the workshop.
type Publisher struct {
	Tools     Provisioner
	Auth      Authenticator
	Runner    runner.Runner
	Converter Converter
	// BaseDir holds the manifest file. Empty means the working directory.
	BaseDir string
	Logger  logx.Logger
}

// ManifestPath returns the absolute manifest file location.
func (p *Publisher) ManifestPath() (string, error) {
	base := p.BaseDir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(filepath.Join(base, ManifestFileName))
	if err != nil {
		return "", fmt.Errorf("resolve manifest path: %w", err)
	}
	return abs, nil
}

// Validate checks the path preconditions for opts without side effects.
func Validate(opts Options) error {
	if !filepath.IsAbs(opts.Folder) {
		return &InvalidPathError{Field: "folder", Path: opts.Folder}
	}
	if opts.Icon != "" && !filepath.IsAbs(opts.Icon) {
		return &InvalidPathError{Field: "icon", Path: opts.Icon}
	}
	return nil
}

// Publish uploads the content folder described by opts as username. The
// console client is provisioned first; the account must already hold a
// cached session.
func (p *Publisher) Publish(ctx context.Context, username string, opts Options) error {
	def, _ := tools.Definition(tools.SteamCMD)
	executable, err := p.Tools.EnsureInstalled(ctx, def)
	if err != nil {
		return err
	}
	if !p.Auth.IsAuthenticated(username) {
		return &NotAuthenticatedError{Username: username}
	}
	if err := Validate(opts); err != nil {
		return err
	}

	manifest := BuildManifest(opts, p.Converter)
	path, err := p.ManifestPath()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(manifest.String()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if opts.ID == "" {
		p.logger().Printf("creating new workshop item from %s", opts.Folder)
	} else {
		p.logger().Printf("updating workshop item %s from %s", opts.ID, opts.Folder)
	}

	client := &steam.Client{Path: executable, Runner: p.Runner, Logger: p.Logger}
	code, err := client.Run(ctx, []string{"+login", username, "+workshop_build_item", path})
	if err != nil {
		return err
	}
	if !steam.Accepted(code) {
		return &PublishError{Code: code}
	}
	return nil
}

func (p *Publisher) logger() logx.Logger {
	if p.Logger == nil {
		return logx.Nop()
	}
	return p.Logger
}
