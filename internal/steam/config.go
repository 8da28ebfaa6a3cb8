package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"workshopupload/internal/platform"
)

// ErrConfigNotFound is the sentinel wrapped by ConfigNotFoundError.
var ErrConfigNotFound = errors.New("steam config not found")

// ConfigNotFoundError lists the locations searched for the session file.
type ConfigNotFoundError struct {
	Searched []string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("failed to find Steam config (searched %s)", strings.Join(e.Searched, ", "))
}

func (e *ConfigNotFoundError) Unwrap() error { return ErrConfigNotFound }

// vendorDirs are the directory name variants a Steam install may use under
// the home directory.
var vendorDirs = []string{"Steam", "steam", ".steam"}

// CredentialStore inspects the console client's persisted session file.
type CredentialStore struct {
	// InstallRoot is the console client's install directory.
	InstallRoot string
	Platform    platform.Target
	// Getenv resolves the home directory; nil uses os.Getenv.
	Getenv func(string) string
}

// InstallConfigPath is the session file inside the install root. Session blobs
// are written here.
func (s *CredentialStore) InstallConfigPath() string {
	return filepath.Join(s.InstallRoot, "config", "config.vdf")
}

// LocateConfig returns the first existing session file: the install root copy
// first, then a Steam directory under the user's home.
func (s *CredentialStore) LocateConfig() (string, error) {
	installed := s.InstallConfigPath()
	if fileExists(installed) {
		return installed, nil
	}
	searched := []string{installed}

	home := s.Platform.HomeDir(s.Getenv)
	if home == "" {
		return "", &ConfigNotFoundError{Searched: searched}
	}
	for _, dir := range vendorDirs {
		candidate := filepath.Join(home, dir, "config", "config.vdf")
		if fileExists(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
		searched = append(searched, candidate)
	}
	return "", &ConfigNotFoundError{Searched: searched}
}

// IsAuthenticated reports whether username appears quoted in the session
// file. Any lookup or read failure means not authenticated. The check is a
// substring heuristic and can match a username that appears elsewhere in the
// file.
func (s *CredentialStore) IsAuthenticated(username string) bool {
	if username == "" {
		return false
	}
	path, err := s.LocateConfig()
	if err != nil {
		return false
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(contents), `"`+username+`"`)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
