package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/ripple/config.yml
// - macOS: ~/Library/Application Support/ripple/config.yml
// - Windows: %APPDATA%\ripple\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ripple", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ripple"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .ripple/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".ripple", "config.yml")
}

// ProjectJSONConfigPath returns the JSON variant of the project config,
// used when no YAML config exists.
func ProjectJSONConfigPath() string {
	return filepath.Join(".ripple", "config.json")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".ripple"
}
