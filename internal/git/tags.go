package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5/plumbing"
)

// Tags lists release tags matching the prefix, most recent first. Recency
// follows semantic-version order of the suffix after the prefix, so
// "api/v1.10.0" outranks "api/v1.9.0" regardless of refname order. Tags
// whose suffix does not parse as a version sort after every versioned tag.
// The dir argument is unused: tags are repository-global, scoping them to
// a package is the prefix's job.
func (s *Source) Tags(ctx context.Context, dir, prefix string) ([]string, error) {
	iter, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := ref.Name().Short()
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	sortTagsByVersion(names, prefix)
	logDebug("[git] Tags: %d tags match prefix %q", len(names), prefix)
	return names, nil
}

// sortTagsByVersion orders tag names newest first by the semantic version
// after the prefix. Unparseable suffixes keep lexical descending order
// among themselves.
func sortTagsByVersion(names []string, prefix string) {
	versions := make(map[string]*semver.Version, len(names))
	for _, name := range names {
		if v, err := semver.NewVersion(strings.TrimPrefix(name, prefix)); err == nil {
			versions[name] = v
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		vi, vj := versions[names[i]], versions[names[j]]
		switch {
		case vi != nil && vj != nil:
			return vi.GreaterThan(vj)
		case vi != nil:
			return true
		case vj != nil:
			return false
		default:
			return names[i] > names[j]
		}
	})
}
