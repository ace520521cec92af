package config

import (
	"os"
	"path/filepath"
)

// Paths are the XDG base directories everything else hangs off.
type Paths struct {
	DataHome   string // $XDG_DATA_HOME or ~/.local/share
	ConfigHome string // $XDG_CONFIG_HOME or ~/.config
}

// XDG resolves the base directories from the environment
func XDG() Paths {
	homeDir, _ := os.UserHomeDir()

	data := os.Getenv("XDG_DATA_HOME")
	if !filepath.IsAbs(data) {
		data = filepath.Join(homeDir, ".local", "share")
	}
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if !filepath.IsAbs(cfg) {
		cfg = filepath.Join(homeDir, ".config")
	}
	return Paths{DataHome: data, ConfigHome: cfg}
}

// Applications is where user desktop entries go
func (p Paths) Applications() string {
	return filepath.Join(p.DataHome, "applications")
}

// Icons is the user icon directory
func (p Paths) Icons() string {
	return filepath.Join(p.DataHome, "icons")
}

// DesktopDirectories holds .directory files for menu categories
func (p Paths) DesktopDirectories() string {
	return filepath.Join(p.DataHome, "desktop-directories")
}

// MergedMenus holds menu fragments merged into the applications menu
func (p Paths) MergedMenus() string {
	return filepath.Join(p.ConfigHome, "menus", "applications-merged")
}

// StateDir is the per-user data directory of the installer
func (p Paths) StateDir() string {
	return filepath.Join(p.DataHome, appDirName)
}

// StatePath returns the path to the bundle state file
func (p Paths) StatePath() string {
	return filepath.Join(p.StateDir(), "bundle-state.json")
}

// LogDir holds rotated log files
func (p Paths) LogDir() string {
	return filepath.Join(p.StateDir(), "logs")
}

// LogPath is the default log file
func (p Paths) LogPath() string {
	return filepath.Join(p.LogDir(), appDirName+".log")
}
