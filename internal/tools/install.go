package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"workshopupload/internal/logx"
	"workshopupload/internal/platform"
)

// ErrToolNotFound is the sentinel wrapped by ToolNotFoundError.
var ErrToolNotFound = errors.New("tool executable not found")

// ToolNotFoundError reports an archive that did not contain the expected
// executable.
type ToolNotFoundError struct {
	Tool string
	URL  string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("failed to find %s executable in %s", e.Tool, e.URL)
}

func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// Provisioner installs tools under Root for a fixed platform.
type Provisioner struct {
	Root     string
	Platform platform.Target
	Fetcher  Fetcher
	Logger   logx.Logger
}

// NewProvisioner returns a provisioner rooted at root. An empty root selects
// DefaultRoot.
func NewProvisioner(root string, target platform.Target, fetcher Fetcher, logger logx.Logger) (*Provisioner, error) {
	if root == "" {
		var err error
		root, err = DefaultRoot()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve tools root: %w", err)
	}
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Provisioner{Root: abs, Platform: target, Fetcher: fetcher, Logger: logger}, nil
}

// ResolvePath returns the expected executable path for tool.
func (p *Provisioner) ResolvePath(tool Descriptor) string {
	return ResolvePath(p.Root, tool, p.Platform)
}

// InstallRoot returns the directory tool is extracted into.
func (p *Provisioner) InstallRoot(tool Descriptor) string {
	return InstallRoot(p.Root, tool)
}

// IsInstalled reports whether the tool's executable is present.
func (p *Provisioner) IsInstalled(tool Descriptor) bool {
	info, err := os.Stat(p.ResolvePath(tool))
	return err == nil && info.Mode().IsRegular()
}

// EnsureInstalled returns the tool's executable path, fetching it first when
// it is not already present.
func (p *Provisioner) EnsureInstalled(ctx context.Context, tool Descriptor) (string, error) {
	if p.IsInstalled(tool) {
		return p.ResolvePath(tool), nil
	}
	return p.Install(ctx, tool)
}

// Install fetches and extracts tool unconditionally.
func (p *Provisioner) Install(ctx context.Context, tool Descriptor) (string, error) {
	downloadURL := tool.URL(p.Platform)
	if downloadURL == "" {
		return "", fmt.Errorf("%s has no download for %s", tool.Name, p.Platform)
	}

	p.Logger.Printf("downloading %s from %s", tool.Name, downloadURL)
	data, err := p.Fetcher.Fetch(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", tool.Name, err)
	}

	dest := p.InstallRoot(tool)
	entries, err := Extract(data, dest)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", tool.Name, err)
	}

	entry, ok := findExecutable(tool, p.Platform, entries)
	if !ok {
		return "", &ToolNotFoundError{Tool: tool.Name, URL: downloadURL}
	}

	executable := filepath.Join(dest, filepath.FromSlash(entry.Path))
	if p.Platform != platform.Windows {
		if err := os.Chmod(executable, 0o755); err != nil {
			return "", fmt.Errorf("chmod %s: %w", tool.Name, err)
		}
	}
	p.Logger.Printf("installed %s at %s", tool.Name, executable)

	if err := p.record(tool, executable, downloadURL); err != nil {
		p.Logger.Printf("record %s in manifest: %v", tool.Name, err)
	}
	return executable, nil
}

func (p *Provisioner) record(tool Descriptor, executable, downloadURL string) error {
	manifest, err := loadManifest(p.Root)
	if err != nil {
		return err
	}
	checksum, err := computeChecksum(executable)
	if err != nil {
		return err
	}
	manifest.Entries[tool.Name] = ManifestEntry{
		Tool:        tool.Name,
		Path:        executable,
		URL:         downloadURL,
		Checksum:    checksum,
		InstalledAt: time.Now().UTC().Format(time.RFC3339),
	}
	return saveManifest(p.Root, manifest)
}

// findExecutable picks the tool's executable among extracted entries.
func findExecutable(tool Descriptor, target platform.Target, entries []Entry) (Entry, bool) {
	want := tool.Executable(target)
	for _, entry := range entries {
		if entry.Kind != KindFile {
			continue
		}
		switch tool.Match {
		case MatchPrefix:
			if strings.HasPrefix(entry.Path, tool.BaseName) && !hasExcludedExt(entry.Path, tool.ExcludeExt) {
				return entry, true
			}
		default:
			if entry.Path == want {
				return entry, true
			}
		}
	}
	return Entry{}, false
}

func hasExcludedExt(name string, excluded []string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, skip := range excluded {
		if ext == skip {
			return true
		}
	}
	return false
}
