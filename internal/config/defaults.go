package config

// GetDefaultConfigTemplate returns a fully commented config template that
// helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Ripple Configuration
# Computes next versions and changelog fragments from conventional commits.

# Repository settings
remote_url: ""                    # Base URL for commit links (e.g. https://github.com/acme/widgets)
tag_prefix: v                     # Default release-tag prefix; packages may override via manifest

# Package settings
packages: []                      # Package directories relative to the repo root; empty = single package at root

# Changelog settings
changelog_file: CHANGELOG.md      # Umbrella changelog for multi-package runs
changelog_offset: 0               # Line offset fragments are inserted at (0 = top of file)

# Versioning settings
root_version: ""                  # Pin the umbrella version (empty = highest current package version)

# Run settings
dry_run: false                    # Preview without writing manifests or changelogs
max_parallel: 4                   # Concurrent package resolutions
verbose: false                    # Debug logging of git operations
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"remote_url": "",
		// tag_prefix: boundary tags look like v1.2.3 by default. Packages
		// in multi-package repositories usually carry their own prefix in
		// the manifest (api/v), which overrides this value.
		"tag_prefix": "v",
		// packages: empty means one package whose manifest sits at the
		// repository root.
		"packages":         []string{},
		"changelog_file":   "CHANGELOG.md",
		"changelog_offset": 0,
		"root_version":     "",
		"dry_run":          false,
		// max_parallel: resolution fan-out. History queries are I/O bound,
		// so a small pool is enough.
		"max_parallel": 4,
		"verbose":      false,
	}
}
