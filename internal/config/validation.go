package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var previewExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// ValidateStrict checks the config against the project on disk.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateAppID()...)
	results = append(results, c.validateFolder(projectRoot)...)
	results = append(results, c.validateIcon(projectRoot)...)
	results = append(results, c.validateItem()...)
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func (c Config) validateAppID() []ValidationResult {
	if _, err := strconv.ParseUint(c.AppID, 10, 32); err != nil {
		return []ValidationResult{{Level: "error", Message: fmt.Sprintf("app_id %q is not a numeric application id", c.AppID)}}
	}
	return nil
}

func (c Config) validateFolder(projectRoot string) []ValidationResult {
	folder := strings.TrimSpace(c.Addon.Folder)
	if folder == "" {
		return []ValidationResult{{Level: "warning", Message: "addon.folder not set; --folder or ADDON_DIR is required"}}
	}
	resolved := resolve(projectRoot, folder)
	info, err := os.Stat(resolved)
	if err != nil {
		return []ValidationResult{{Level: "error", Message: fmt.Sprintf("addon folder %q not found", folder)}}
	}
	if !info.IsDir() {
		return []ValidationResult{{Level: "error", Message: fmt.Sprintf("addon folder %q is not a directory", folder)}}
	}
	if _, err := os.Stat(filepath.Join(resolved, "addon.json")); err != nil {
		return []ValidationResult{{Level: "warning", Message: fmt.Sprintf("addon folder %q has no addon.json", folder)}}
	}
	return nil
}

func (c Config) validateIcon(projectRoot string) []ValidationResult {
	icon := strings.TrimSpace(c.Addon.Icon)
	if icon == "" {
		return nil
	}
	var results []ValidationResult
	if _, err := os.Stat(resolve(projectRoot, icon)); err != nil {
		results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("icon %q not found", icon)})
	}
	if !previewExtensions[strings.ToLower(filepath.Ext(icon))] {
		results = append(results, ValidationResult{Level: "warning", Message: fmt.Sprintf("icon %q is not a jpg, png or gif", icon)})
	}
	return results
}

func (c Config) validateItem() []ValidationResult {
	var results []ValidationResult
	if id := strings.TrimSpace(c.Addon.ID); id != "" {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			results = append(results, ValidationResult{Level: "error", Message: fmt.Sprintf("addon.id %q is not a numeric workshop id", id)})
		}
	}
	if c.Addon.Description != "" && c.Addon.MarkdownDescription != "" {
		results = append(results, ValidationResult{Level: "error", Message: "addon.description and addon.markdown_description are mutually exclusive"})
	}
	return results
}

// ResolvePath returns value relative to root unless it is already absolute.
func ResolvePath(root, value string) string {
	return resolve(root, value)
}

func resolve(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}
