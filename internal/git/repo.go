// Package git reads commit history and release tags from a git repository
// using the go-git library. It is the only package that touches raw git
// data: commit messages are parsed into structured records here, so the
// bump engine upstream never sees git plumbing.
package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it's a no-op. Set it via SetDebugLogger to enable
// debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Source reads commits and tags from one repository. It implements the
// bump engine's CommitSource and TagSource interfaces. A Source is safe
// for concurrent readers: go-git repository reads do not mutate state.
type Source struct {
	repo *gogit.Repository
	root string
}

// NewSource opens the repository containing root and returns a Source
// bound to it. DetectDotGit is enabled, so root may be any directory
// inside the repository.
func NewSource(root string) (*Source, error) {
	repo, err := openRepo(root)
	if err != nil {
		return nil, err
	}
	return &Source{repo: repo, root: root}, nil
}

// openRepo opens a git repository at the specified path. It uses go-git's
// PlainOpenWithOptions with DetectDotGit enabled to traverse up the
// directory tree to find the repository root.
func openRepo(path string) (*gogit.Repository, error) {
	if path == "" {
		path = "."
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}
