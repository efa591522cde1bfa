// Package manifest reads and writes the per-package release descriptors
// (package.yaml) and handles changelog file updates. It is deliberately
// thin: version strings are carried as-is and validated by the bump
// calculator, not here.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/ripple/internal/errors"
)

// Filename is the manifest file name expected in every package directory.
const Filename = "package.yaml"

// Manifest describes one releasable package.
type Manifest struct {
	// Name identifies the package; internal dependency edges refer to it.
	Name string `yaml:"name"`
	// Version is the current released version.
	Version string `yaml:"version"`
	// Dependencies lists dependency names. Names matching another package
	// in the same run form internal edges; everything else is ignored.
	Dependencies []string `yaml:"dependencies,omitempty"`
	// TagPrefix overrides the tag prefix used to find this package's
	// release boundary. Empty falls back to the configured default.
	TagPrefix string `yaml:"tag_prefix,omitempty"`
	// Changelog overrides the changelog path, relative to the package
	// directory. Empty means CHANGELOG.md next to the manifest.
	Changelog string `yaml:"changelog,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewConfigError(
			fmt.Sprintf("no package manifest at %s", path),
			fmt.Sprintf("Create a %s with at least a name and a version", Filename),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("parsing manifest %s: %v", path, err))
	}

	if err := m.validate(path); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFromDir reads the manifest from its conventional location inside a
// package directory.
func LoadFromDir(dir string) (*Manifest, error) {
	return Load(filepath.Join(dir, Filename))
}

func (m *Manifest) validate(path string) error {
	if m.Name == "" {
		return errors.NewConfigError(
			fmt.Sprintf("manifest %s is missing a name", path),
		)
	}
	if m.Version == "" {
		return errors.NewConfigError(
			fmt.Sprintf("manifest %s is missing a version", path),
		)
	}
	return nil
}
