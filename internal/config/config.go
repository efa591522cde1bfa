// ripple - Release Versioning from Commit History
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/ripple

// Package config provides hierarchical configuration management for ripple
// using koanf. Configuration is loaded with priority: environment variables
// > project config (.ripple/config.yml, JSON variant supported) > user
// config (~/.config/ripple/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	ripplerr "github.com/ariel-frischer/ripple/internal/errors"
)

// Configuration represents the ripple run configuration.
type Configuration struct {
	// RemoteURL is the repository base URL used to build commit links in
	// rendered changelog entries. Empty disables links.
	// Can be set via RIPPLE_REMOTE_URL env var.
	RemoteURL string `koanf:"remote_url"`

	// TagPrefix is the default release-tag prefix used to locate each
	// package's boundary tag. Multi-package repositories usually override
	// it per package in the manifest (tag_prefix: api/v).
	TagPrefix string `koanf:"tag_prefix"`

	// Packages lists package directories relative to the repository root.
	// Empty means a single package rooted at the repository itself.
	Packages []string `koanf:"packages"`

	// ChangelogFile is the umbrella changelog for multi-package runs,
	// relative to the repository root.
	ChangelogFile string `koanf:"changelog_file"`

	// ChangelogOffset is the line offset fragments are inserted at.
	ChangelogOffset int `koanf:"changelog_offset"`

	// RootVersion pins the umbrella version for multi-package runs. Empty
	// derives it from the highest current package version.
	RootVersion string `koanf:"root_version"`

	// DryRun previews the release without writing manifests or changelogs.
	DryRun bool `koanf:"dry_run"`

	// MaxParallel caps how many packages resolve concurrently.
	// Can be set via RIPPLE_MAX_PARALLEL env var.
	MaxParallel int `koanf:"max_parallel"`

	// Verbose enables debug logging of git operations.
	Verbose bool `koanf:"verbose"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path
	// (default: .ripple/config.yml).
	ProjectConfigPath string
	// ProjectDir anchors the default project config lookup. Empty means
	// the current directory. Ignored when ProjectConfigPath is set.
	ProjectDir string
	// SkipUserConfig ignores the user-level config file. Used by tests to
	// stay hermetic.
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, opts.ProjectDir); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when it exists.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return ripplerr.NewParseError(fmt.Sprintf("loading user config %s: %v", path, err))
	}
	return nil
}

// loadProjectConfig loads the project-level config. YAML is preferred; the
// JSON variant is used when only it exists.
func loadProjectConfig(k *koanf.Koanf, customPath, dir string) error {
	yamlPath := filepath.Join(dir, ProjectConfigPath())
	if customPath != "" {
		yamlPath = customPath
	}
	jsonPath := filepath.Join(dir, ProjectJSONConfigPath())

	switch {
	case fileExists(yamlPath):
		parser := pickParser(yamlPath)
		if err := k.Load(file.Provider(yamlPath), parser); err != nil {
			return ripplerr.NewParseError(fmt.Sprintf("loading project config %s: %v", yamlPath, err))
		}
	case customPath == "" && fileExists(jsonPath):
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return ripplerr.NewParseError(fmt.Sprintf("loading project config %s: %v", jsonPath, err))
		}
	}
	return nil
}

// pickParser chooses the koanf parser from the file extension so a custom
// project path may point at either format.
func pickParser(path string) koanf.Parser {
	if strings.HasSuffix(path, ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// loadEnvironmentConfig loads RIPPLE_-prefixed environment overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("RIPPLE_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: RIPPLE_REMOTE_URL -> remote_url
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "RIPPLE_"))
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, ripplerr.NewParseError(fmt.Sprintf("unmarshaling config: %v", err))
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configuration values the engine cannot run with.
func validate(cfg *Configuration) error {
	if cfg.MaxParallel < 1 {
		return ripplerr.NewConfigError(
			fmt.Sprintf("max_parallel must be at least 1, got %d", cfg.MaxParallel),
		)
	}
	if cfg.ChangelogOffset < 0 {
		return ripplerr.NewConfigError(
			fmt.Sprintf("changelog_offset must not be negative, got %d", cfg.ChangelogOffset),
		)
	}
	for _, dir := range cfg.Packages {
		if dir == "" {
			return ripplerr.NewConfigError("packages entries must not be empty")
		}
		if filepath.IsAbs(dir) {
			return ripplerr.NewConfigError(
				fmt.Sprintf("package directory %q must be relative to the repository root", dir),
			)
		}
	}
	return nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
