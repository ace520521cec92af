package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the application configuration
type Config struct {
	PrivilegeCommand  string   `json:"privilege_command"`   // sudo or pkexec
	SkipInstalled     bool     `json:"skip_installed"`      // Query the manager before installing
	HideSystemEntries bool     `json:"hide_system_entries"` // Write NoDisplay overrides for system desktop files
	LogLevel          string   `json:"log_level"`           // zerolog level name
	AppsConfig        string   `json:"apps_config"`         // Path to apps.yaml overlay (optional)
	SystemAppDirs     []string `json:"system_app_dirs"`     // Where system desktop files live
	FirstRun          bool     `json:"-"`                   // Is this the first run?

	path string
}

// configFileName is the name of the config file
const configFileName = "config.json"

// appDirName is the per-user directory name under the XDG roots
const appDirName = "creative-suite"

// Supported privilege wrappers
var privilegeCommands = []string{"sudo", "pkexec"}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		PrivilegeCommand:  "sudo",
		SkipInstalled:     true,
		HideSystemEntries: true,
		LogLevel:          "info",
		AppsConfig:        filepath.Join(ConfigDir(), "apps.yaml"),
		SystemAppDirs: []string{
			"/usr/share/applications",
			"/usr/local/share/applications",
			"/var/lib/flatpak/exports/share/applications",
			"/var/lib/snapd/desktop/applications",
		},
		FirstRun: true,
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// ConfigDir returns the directory containing creative-suite config files
func ConfigDir() string {
	return filepath.Join(XDG().ConfigHome, appDirName)
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads the configuration from path, or ConfigPath() when empty.
// A missing file yields defaults with FirstRun set.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run - return default config
			cfg := Default()
			cfg.FirstRun = true
			cfg.path = path
			return cfg, nil
		}
		return nil, err
	}

	// Start from defaults so fields missing in older files keep sane values
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.FirstRun = false
	cfg.path = path
	return cfg, nil
}

// Validate checks field values
func (c *Config) Validate() error {
	known := false
	for _, p := range privilegeCommands {
		if c.PrivilegeCommand == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("privilege_command must be one of %s, got %q",
			strings.Join(privilegeCommands, ", "), c.PrivilegeCommand)
	}
	return nil
}

// Path returns the file this config was loaded from
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save saves the configuration to file
func (c *Config) Save() error {
	configPath := c.Path()

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDirectories creates the per-user directories the installer writes to
func (c *Config) EnsureDirectories(p Paths) error {
	dirs := []string{
		p.StateDir(),
		p.LogDir(),
		p.Applications(),
		p.Icons(),
		p.DesktopDirectories(),
		p.MergedMenus(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
