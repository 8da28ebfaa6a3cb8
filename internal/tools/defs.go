package tools

import (
	"path/filepath"
	"sort"

	"workshopupload/internal/platform"
)

const (
	SteamCMD = "steamcmd"
	FastGMAD = "fastgmad"
)

var toolDefinitions = map[string]Descriptor{
	SteamCMD: {
		Name:       SteamCMD,
		BaseName:   "steamcmd",
		InstallDir: "steamcmd",
		Executables: map[platform.Target]string{
			platform.Windows: "steamcmd.exe",
			platform.Linux:   "steamcmd.sh",
			platform.MacOS:   "steamcmd.sh",
		},
		URLs: map[platform.Target]string{
			platform.Windows: "https://steamcdn-a.akamaihd.net/client/installer/steamcmd.zip",
			platform.Linux:   "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz",
			platform.MacOS:   "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_osx.tar.gz",
		},
		Match: MatchExact,
	},
	FastGMAD: {
		Name:       FastGMAD,
		BaseName:   "fastgmad",
		InstallDir: "gmad",
		URLs: map[platform.Target]string{
			platform.Windows: "https://github.com/WilliamVenner/fastgmad/releases/latest/download/fastgmad_windows.zip",
			platform.Linux:   "https://github.com/WilliamVenner/fastgmad/releases/latest/download/fastgmad_linux.zip",
			platform.MacOS:   "https://github.com/WilliamVenner/fastgmad/releases/latest/download/fastgmad_macos.zip",
		},
		// The archive ships the steam_api shared library next to the binary.
		Match:      MatchPrefix,
		ExcludeExt: []string{".dll", ".so", ".dylib"},
	},
}

// KnownTools returns the list of managed tool names.
func KnownTools() []string {
	names := make([]string, 0, len(toolDefinitions))
	for name := range toolDefinitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the tool definition for the provided name.
func Definition(name string) (Descriptor, bool) {
	def, ok := toolDefinitions[name]
	return def, ok
}

// InstallRoot returns the directory a tool is extracted into.
func InstallRoot(root string, tool Descriptor) string {
	return filepath.Join(root, tool.InstallDir)
}

// ResolvePath returns the expected absolute executable path for tool on
// target. It performs no I/O.
func ResolvePath(root string, tool Descriptor, target platform.Target) string {
	return filepath.Join(InstallRoot(root, tool), tool.Executable(target))
}
