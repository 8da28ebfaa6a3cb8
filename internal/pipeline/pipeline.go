// Package pipeline sequences a full workshop upload.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"workshopupload/internal/logx"
	"workshopupload/internal/steam"
	"workshopupload/internal/tools"
	"workshopupload/internal/workshop"
)

// Stage names one step of the upload.
type Stage string

const (
	StageProvisionClient   Stage = "provisioning SteamCMD"
	StageUpdate            Stage = "updating SteamCMD"
	StageLogin             Stage = "logging in"
	StageProvisionPackager Stage = "provisioning fastgmad"
	StagePackage           Stage = "packaging addon"
	StagePublish           Stage = "publishing to workshop"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageProvisionClient,
	StageUpdate,
	StageLogin,
	StageProvisionPackager,
	StagePackage,
	StagePublish,
}

// Provisioner resolves a tool to an installed executable path.
type Provisioner interface {
	EnsureInstalled(ctx context.Context, tool tools.Descriptor) (string, error)
}

// Session authenticates against the console client.
type Session interface {
	Update(ctx context.Context) error
	Login(ctx context.Context, username string, creds steam.Credentials) error
}

// Packager builds an addon archive.
type Packager interface {
	Package(ctx context.Context, folder, output string) (string, error)
}

// Publisher uploads an archive's folder to the workshop.
type Publisher interface {
	Publish(ctx context.Context, username string, opts workshop.Options) error
}

// Request is the complete input for one upload.
type Request struct {
	Username    string
	Credentials steam.Credentials
	// Folder is the addon source directory handed to the packager.
	Folder string
	// Output is the archive path; its directory is submitted as the
	// workshop content folder.
	Output string
	// Item carries the workshop metadata. Folder is filled in by Run.
	Item workshop.Options
}

// Result describes a completed upload.
type Result struct {
	Archive       string
	ContentFolder string
}

// StageError records the stage a run stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs the stages strictly in order and stops at the first failure.
type Pipeline struct {
	Tools     Provisioner
	Session   Session
	Packager  Packager
	Publisher Publisher
	Logger    logx.Logger
	// OnStage is called as each stage starts.
	OnStage func(Stage)
}

// Validate checks request fields that can be rejected before any work.
func Validate(req Request) error {
	if req.Username == "" {
		return errors.New("username is required")
	}
	if req.Folder == "" {
		return errors.New("addon folder is required")
	}
	if req.Output == "" {
		return errors.New("output archive path is required")
	}
	if err := req.Credentials.Validate(); err != nil {
		return err
	}
	if req.Item.Icon != "" && !filepath.IsAbs(req.Item.Icon) {
		return &workshop.InvalidPathError{Field: "icon", Path: req.Item.Icon}
	}
	return nil
}

// Run executes provision, update, login, package and publish.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}
	var result Result

	steps := []struct {
		stage Stage
		run   func() error
	}{
		{StageProvisionClient, func() error { return p.provision(ctx, tools.SteamCMD) }},
		{StageUpdate, func() error { return p.Session.Update(ctx) }},
		{StageLogin, func() error { return p.Session.Login(ctx, req.Username, req.Credentials) }},
		{StageProvisionPackager, func() error { return p.provision(ctx, tools.FastGMAD) }},
		{StagePackage, func() error {
			archive, err := p.Packager.Package(ctx, req.Folder, req.Output)
			if err != nil {
				return err
			}
			result.Archive = archive
			result.ContentFolder = filepath.Dir(archive)
			return nil
		}},
		{StagePublish, func() error {
			opts := req.Item
			opts.Folder = result.ContentFolder
			return p.Publisher.Publish(ctx, req.Username, opts)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, &StageError{Stage: step.stage, Err: err}
		}
		if p.OnStage != nil {
			p.OnStage(step.stage)
		}
		p.logger().Printf("%s", step.stage)
		if err := step.run(); err != nil {
			return result, &StageError{Stage: step.stage, Err: err}
		}
	}
	return result, nil
}

func (p *Pipeline) provision(ctx context.Context, name string) error {
	def, ok := tools.Definition(name)
	if !ok {
		return fmt.Errorf("unknown tool %q", name)
	}
	_, err := p.Tools.EnsureInstalled(ctx, def)
	return err
}

func (p *Pipeline) logger() logx.Logger {
	if p.Logger == nil {
		return logx.Nop()
	}
	return p.Logger
}
