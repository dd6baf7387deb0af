// Package config loads the three-document configuration cascade: application
// settings, scoring weights, and theme palettes.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "planner"

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultConfigDir is where the three config documents live by default.
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(base, appDirName)
}

// DefaultDataDir is where data files and backups live by default: XDG data
// home on Unix-likes, the roaming profile on Windows.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, ".local", "share", appDirName)
}
