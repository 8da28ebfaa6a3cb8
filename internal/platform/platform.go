package platform

import (
	"os"
	"runtime"
)

// Target identifies the host operating system family. It is resolved once at
// startup and passed to every path and URL resolution call.
type Target int

const (
	Linux Target = iota
	Windows
	MacOS
)

// Detect returns the target for the running process.
func Detect() Target {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a target. Anything that is neither windows nor
// darwin is treated as Linux.
func FromGOOS(goos string) Target {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Linux
	}
}

// String returns the lowercase name used in download asset names.
func (t Target) String() string {
	switch t {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	default:
		return "linux"
	}
}

// ExecutableName appends the platform executable suffix to base.
func (t Target) ExecutableName(base string) string {
	if t == Windows {
		return base + ".exe"
	}
	return base
}

// HomeDir returns the user's home directory as the vendor client sees it:
// %USERPROFILE% on Windows and $HOME elsewhere.
func (t Target) HomeDir(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if t == Windows {
		return getenv("USERPROFILE")
	}
	return getenv("HOME")
}
