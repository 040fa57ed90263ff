// Package xdg resolves XDG Base Directory paths for sqlbridge.
// It falls back to the traditional locations when the XDG environment
// variables are unset and keeps the directories private.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base.
const AppName = "sqlbridge"

// ConfigDir returns the XDG config directory for sqlbridge.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/sqlbridge when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return dir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for sqlbridge, used for the
// log file of long-running commands.
// It falls back to ~/.local/state/sqlbridge when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return dir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func dir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	d := filepath.Join(base, AppName)
	if err := os.MkdirAll(d, 0o700); err != nil { // private dir
		return "", err
	}
	return d, nil
}
