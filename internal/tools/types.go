package tools

import "workshopupload/internal/platform"

// MatchMode selects how the executable is located among extracted entries.
type MatchMode int

const (
	// MatchExact requires an entry path equal to the executable name.
	MatchExact MatchMode = iota
	// MatchPrefix accepts the first entry whose path starts with the
	// descriptor's base name and carries none of the excluded extensions.
	MatchPrefix
)

// Descriptor describes an external tool fetched on demand. Descriptors are
// static; only the platform varies between calls.
type Descriptor struct {
	Name        string
	BaseName    string
	InstallDir  string
	Executables map[platform.Target]string
	URLs        map[platform.Target]string
	Match       MatchMode
	ExcludeExt  []string
}

// Executable returns the executable file name for target.
func (d Descriptor) Executable(target platform.Target) string {
	if name, ok := d.Executables[target]; ok {
		return name
	}
	return target.ExecutableName(d.BaseName)
}

// URL returns the archive download URL for target.
func (d Descriptor) URL(target platform.Target) string {
	return d.URLs[target]
}

// EntryKind classifies an extracted archive entry.
type EntryKind string

const (
	KindFile    EntryKind = "file"
	KindDir     EntryKind = "directory"
	KindSymlink EntryKind = "symlink"
)

// Entry is a single extracted archive member, relative to the extraction root
// and always slash-separated.
type Entry struct {
	Path string
	Kind EntryKind
}

// Status captures the resolved state for a managed tool.
type Status struct {
	Tool        string `json:"tool"`
	Path        string `json:"path"`
	Installed   bool   `json:"installed"`
	URL         string `json:"url,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ManifestEntry records a provisioned tool in the tools manifest.
type ManifestEntry struct {
	Tool        string `json:"tool"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	Checksum    string `json:"checksum,omitempty"`
	InstalledAt string `json:"installed_at,omitempty"`
}

// Manifest wraps persisted entries for quick lookup.
type Manifest struct {
	Entries map[string]ManifestEntry `json:"entries"`
}
