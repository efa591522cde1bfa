package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/ripple/internal/changelog"
	"github.com/ariel-frischer/ripple/internal/errors"
)

// Store persists version bumps and changelog fragments for packages under
// a repository root. All paths passed to it are relative to that root.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the repository directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Load reads the manifest of the package in dir.
func (s *Store) Load(dir string) (*Manifest, error) {
	return LoadFromDir(filepath.Join(s.root, dir))
}

// WriteVersion rewrites only the version field of the package's manifest.
// The update is surgical on the YAML node tree, so comments, key order,
// and fields this tool does not know about survive the rewrite.
func (s *Store) WriteVersion(dir, version string) error {
	path := filepath.Join(s.root, dir, Filename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.NewConfigError(fmt.Sprintf("no package manifest at %s", path))
	}
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewParseError(fmt.Sprintf("parsing manifest %s: %v", path, err))
	}
	if !setMappingValue(&doc, "version", version) {
		return errors.NewParseError(fmt.Sprintf("manifest %s has no version field", path))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Content[0]); err != nil {
		return fmt.Errorf("encoding manifest %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding manifest %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// InsertChangelog splices a rendered fragment into the changelog file at
// the given line offset. A missing changelog file or an empty fragment is
// a no-op: the changelog is the package author's file, this tool only adds
// to one that exists.
func (s *Store) InsertChangelog(path, fragment string, offset int) error {
	if fragment == "" {
		return nil
	}

	full := filepath.Join(s.root, path)
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading changelog %s: %w", full, err)
	}

	updated := changelog.Insert(string(data), fragment, offset)
	if err := os.WriteFile(full, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing changelog %s: %w", full, err)
	}
	return nil
}

// ChangelogPath resolves the changelog location for a package, honoring
// the manifest override and defaulting to CHANGELOG.md beside the
// manifest. The returned path is relative to the store root.
func (s *Store) ChangelogPath(dir string, m *Manifest) string {
	name := m.Changelog
	if name == "" {
		name = "CHANGELOG.md"
	}
	return filepath.Join(dir, name)
}

// setMappingValue updates the scalar value for key in the document's root
// mapping and reports whether the key was found.
func setMappingValue(doc *yaml.Node, key, value string) bool {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return false
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1].SetString(value)
			return true
		}
	}
	return false
}
