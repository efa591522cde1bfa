package git

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/ripple/internal/commit"
)

// headerPattern matches a conventional-commit header: a type, an optional
// scope in parentheses, the optional "!" breaking shorthand, and the
// subject after the colon.
var headerPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^)]*)\))?(!)?:\s+(.+)$`)

// CommitsSince returns the commits that touched dir after the boundary
// tag, parsed into records and ordered oldest first. An empty boundary
// means the entire history; an empty dir means the whole repository. A
// repository without any commits yields an empty range, not an error.
func (s *Source) CommitsSince(ctx context.Context, dir, sinceTag string) ([]commit.Record, error) {
	head, err := s.repo.Head()
	if err == plumbing.ErrReferenceNotFound {
		logDebug("[git] CommitsSince: repository has no commits yet")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	var excluded map[plumbing.Hash]bool
	if sinceTag != "" {
		boundary, err := s.resolveTagCommit(sinceTag)
		if err != nil {
			return nil, err
		}
		excluded, err = s.ancestorSet(ctx, boundary)
		if err != nil {
			return nil, err
		}
	}

	iter, err := s.repo.Log(&gogit.LogOptions{
		From:       head.Hash(),
		Order:      gogit.LogOrderCommitterTime,
		PathFilter: pathFilter(dir),
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var records []commit.Record
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if excluded[c.Hash] {
			return nil
		}
		records = append(records, parseCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	// The log yields newest first; the engine wants chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	logDebug("[git] CommitsSince: %d commits for %q since %q", len(records), dir, sinceTag)
	return records, nil
}

// resolveTagCommit resolves a tag name to the commit it points at, peeling
// annotated tag objects to their target.
func (s *Source) resolveTagCommit(name string) (plumbing.Hash, error) {
	ref, err := s.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving tag %s: %w", name, err)
	}

	hash := ref.Hash()
	if tagObj, err := s.repo.TagObject(hash); err == nil {
		hash = tagObj.Target
	}
	return hash, nil
}

// ancestorSet collects every commit reachable from the boundary. Excluding
// the full ancestor set rather than stopping at first sight keeps ranges
// correct across merge commits, matching "boundary..HEAD" semantics.
func (s *Source) ancestorSet(ctx context.Context, boundary plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := s.repo.Log(&gogit.LogOptions{From: boundary})
	if err != nil {
		return nil, fmt.Errorf("walking boundary ancestry: %w", err)
	}
	defer iter.Close()

	set := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		set[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking boundary ancestry: %w", err)
	}
	return set, nil
}

// pathFilter builds the log filter limiting the walk to commits touching
// the package directory. A nil filter means no path restriction.
func pathFilter(dir string) func(string) bool {
	dir = path.Clean(strings.TrimPrefix(filepath.ToSlash(dir), "./"))
	if dir == "" || dir == "." {
		return nil
	}
	prefix := dir + "/"
	return func(p string) bool {
		return p == dir || strings.HasPrefix(p, prefix)
	}
}

// parseCommit turns one git commit into a structured record.
func parseCommit(c *object.Commit) commit.Record {
	return parseMessage(c.Hash.String(), c.Message)
}

// parseMessage parses a commit message into a record. The "!" shorthand
// and a BREAKING CHANGE footer both normalize into the breaking-marker
// header form the classifier checks, so downstream code needs exactly one
// rule for breaking detection.
func parseMessage(hash, message string) commit.Record {
	header := firstLine(message)
	rec := commit.Record{Hash: hash, Header: header}

	breaking := hasBreakingFooter(message)
	if m := headerPattern.FindStringSubmatch(header); m != nil {
		rec.Type = strings.ToLower(m[1])
		rec.Scope = m[2]
		rec.Subject = m[4]
		if m[3] == "!" {
			breaking = true
		}
	} else {
		rec.Subject = strings.TrimSpace(strings.TrimPrefix(header, commit.BreakingMarker+":"))
	}

	if breaking && !strings.HasPrefix(rec.Header, commit.BreakingMarker) {
		rec.Header = commit.BreakingMarker + ": " + rec.Subject
	}
	return rec
}

// hasBreakingFooter reports whether any line after the header declares a
// breaking change. Both footer spellings are accepted.
func hasBreakingFooter(message string) bool {
	lines := strings.Split(message, "\n")
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, commit.BreakingMarker) || strings.HasPrefix(line, "BREAKING-CHANGE") {
			return true
		}
	}
	return false
}

// firstLine returns the trimmed first line of a commit message.
func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
