package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up in the base directory.
const FileName = "workshop.yaml"

// Config captures the publishing defaults for an addon project.
type Config struct {
	Version int    `yaml:"version"`
	AppID   string `yaml:"app_id"`
	// ToolsDir overrides where SteamCMD and fastgmad are installed.
	ToolsDir string      `yaml:"tools_dir,omitempty"`
	Output   string      `yaml:"output,omitempty"`
	LogsDir  string      `yaml:"logs_dir,omitempty"`
	Addon    AddonConfig `yaml:"addon"`
}

// AddonConfig holds the workshop item metadata kept alongside the addon.
type AddonConfig struct {
	ID                  string `yaml:"id,omitempty"`
	Folder              string `yaml:"folder,omitempty"`
	Icon                string `yaml:"icon,omitempty"`
	Title               string `yaml:"title,omitempty"`
	Description         string `yaml:"description,omitempty"`
	MarkdownDescription string `yaml:"markdown_description,omitempty"`
	Visibility          string `yaml:"visibility,omitempty"`
}

// Default returns the baseline configuration. Garry's Mod is the default
// application.
func Default() Config {
	return Config{
		Version: 1,
		AppID:   "4000",
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills fields the YAML left empty.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.AppID == "" {
		c.AppID = defaults.AppID
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
