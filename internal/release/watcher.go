package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ariel-frischer/ripple/internal/errors"
)

// Watcher re-runs a release preview whenever the repository's git state
// changes: new commits, new tags, branch switches. It watches the .git
// directory itself (HEAD, packed-refs) plus the loose ref directories.
type Watcher struct {
	gitDir   string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	closed   bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last git event
// before recomputing. Git updates refs in several steps; the quiet period
// collapses them into one recompute.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a Watcher for the repository rooted at root.
func NewWatcher(root string, opts ...WatcherOption) (*Watcher, error) {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("no .git directory at %s", root),
			"Run watch mode from inside a git repository",
		)
	}
	if !info.IsDir() {
		// Linked worktrees keep a .git pointer file instead of a directory.
		return nil, errors.NewConfigError(
			fmt.Sprintf("%s is not a directory", gitDir),
			"Watch mode needs the main repository, not a linked worktree",
		)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		gitDir:   gitDir,
		watcher:  fsw,
		debounce: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch runs recompute once immediately, then again after every burst of
// git state changes, until the context is cancelled. Cancellation is a
// clean exit; a recompute failure is fatal and returned.
func (w *Watcher) Watch(ctx context.Context, recompute func(context.Context) error) error {
	if err := w.addWatchPaths(); err != nil {
		return err
	}

	if err := recompute(ctx); err != nil {
		return err
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.trackNewRefDir(event)
			if w.relevant(event) {
				pending = time.After(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching repository: %w", err)
		case <-pending:
			pending = nil
			if err := recompute(ctx); err != nil {
				return err
			}
		}
	}
}

// addWatchPaths registers the .git directory and whichever loose ref
// directories exist. refs/tags may appear later; trackNewRefDir picks it up.
func (w *Watcher) addWatchPaths() error {
	if err := w.watcher.Add(w.gitDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.gitDir, err)
	}

	for _, sub := range []string{"refs", "refs/heads", "refs/tags"} {
		dir := filepath.Join(w.gitDir, filepath.FromSlash(sub))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return nil
}

// trackNewRefDir starts watching ref directories created after Watch began,
// such as refs/tags on the first tag.
func (w *Watcher) trackNewRefDir(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if !w.underRefs(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		_ = w.watcher.Add(event.Name)
	}
}

// relevant reports whether an event indicates a git state change worth a
// recompute: HEAD or packed-refs rewrites, or anything under refs/. Lock
// files git creates around every update are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}

	base := filepath.Base(event.Name)
	if filepath.Dir(event.Name) == w.gitDir {
		return base == "HEAD" || base == "packed-refs"
	}
	return w.underRefs(event.Name)
}

// underRefs reports whether path sits inside the repository's refs tree.
func (w *Watcher) underRefs(path string) bool {
	refs := filepath.Join(w.gitDir, "refs")
	return path == refs || strings.HasPrefix(path, refs+string(filepath.Separator))
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
