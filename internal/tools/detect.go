package tools

import "sort"

// Detect returns the status of each known tool under the provisioner's root.
// Manifest details are attached when the recorded path is still present.
func (p *Provisioner) Detect() ([]Status, error) {
	manifest, err := loadManifest(p.Root)
	if err != nil {
		return nil, err
	}

	var statuses []Status
	for _, name := range KnownTools() {
		def, _ := Definition(name)
		statuses = append(statuses, p.detectOne(def, manifest.Entries[name]))
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Tool < statuses[j].Tool })
	return statuses, nil
}

func (p *Provisioner) detectOne(def Descriptor, entry ManifestEntry) Status {
	status := Status{
		Tool:      def.Name,
		Path:      p.ResolvePath(def),
		Installed: p.IsInstalled(def),
		URL:       def.URL(p.Platform),
	}
	if entry.Tool == "" {
		return status
	}
	if entry.Path != status.Path {
		status.Error = "manifest records a different path: " + entry.Path
		return status
	}
	if !status.Installed {
		status.Error = "recorded in manifest but missing on disk"
		return status
	}

	status.InstalledAt = entry.InstalledAt
	status.Checksum = entry.Checksum
	if current, err := computeChecksum(status.Path); err == nil && current != entry.Checksum {
		status.Error = "checksum differs from manifest"
	}
	return status
}
