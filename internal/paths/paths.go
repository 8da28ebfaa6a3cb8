package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"workshopupload/internal/config"
	"workshopupload/internal/workshop"
)

// Workspace captures the canonical locations for one upload run. Every path
// is absolute so later stages never depend on the working directory.
type Workspace struct {
	Root       string
	ConfigFile string
	// ManifestFile is where the workshop item manifest is written.
	ManifestFile string
	ToolsRoot    string
	Output       string
	LogsDir      string
}

// Resolve determines the base directory using the optional --project flag or
// the current working directory when the flag is empty.
func Resolve(projectFlag string) (Workspace, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return Workspace{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newWorkspace(root), nil
}

func newWorkspace(root string) Workspace {
	tmp := os.TempDir()
	return Workspace{
		Root:         root,
		ConfigFile:   filepath.Join(root, config.FileName),
		ManifestFile: filepath.Join(root, workshop.ManifestFileName),
		ToolsRoot:    tmp,
		Output:       filepath.Join(tmp, "addon", "addon.gma"),
		LogsDir:      filepath.Join(root, "logs"),
	}
}

// ApplyConfig overrides defaults with config values. Relative paths are
// resolved against the workspace root.
func ApplyConfig(ws Workspace, cfg config.Config) Workspace {
	if dir := strings.TrimSpace(cfg.ToolsDir); dir != "" {
		ws.ToolsRoot = config.ResolvePath(ws.Root, dir)
	}
	if out := strings.TrimSpace(cfg.Output); out != "" {
		ws.Output = config.ResolvePath(ws.Root, out)
	}
	if logs := strings.TrimSpace(cfg.LogsDir); logs != "" {
		ws.LogsDir = config.ResolvePath(ws.Root, logs)
	}
	return ws
}

// Abs resolves value against the workspace root unless it is absolute. Empty
// values stay empty.
func (w Workspace) Abs(value string) string {
	if value == "" {
		return ""
	}
	return config.ResolvePath(w.Root, value)
}

// EnsureRoot makes sure the base directory exists on disk.
func (w Workspace) EnsureRoot() error {
	if err := os.MkdirAll(w.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
