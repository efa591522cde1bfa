package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/ripple/internal/errors"
)

func TestNewWatcherOutsideRepository(t *testing.T) {
	_, err := NewWatcher(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errors.Configuration, errors.CategoryOf(err))
}

func TestNewWatcherGitPointerFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../elsewhere\n"), 0o644))

	_, err := NewWatcher(root)
	require.Error(t, err)
	assert.Equal(t, errors.Configuration, errors.CategoryOf(err))
}

func TestWatcherRelevantEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	w, err := NewWatcher(root)
	require.NoError(t, err)
	defer w.Close()

	gitDir := filepath.Join(root, ".git")
	tests := map[string]struct {
		path     string
		expected bool
	}{
		"HEAD rewrite":       {filepath.Join(gitDir, "HEAD"), true},
		"packed refs":        {filepath.Join(gitDir, "packed-refs"), true},
		"loose branch ref":   {filepath.Join(gitDir, "refs", "heads", "main"), true},
		"loose tag ref":      {filepath.Join(gitDir, "refs", "tags", "v1.0.0"), true},
		"ref lock file":      {filepath.Join(gitDir, "refs", "heads", "main.lock"), false},
		"head lock file":     {filepath.Join(gitDir, "HEAD.lock"), false},
		"config rewrite":     {filepath.Join(gitDir, "config"), false},
		"commit msg scratch": {filepath.Join(gitDir, "COMMIT_EDITMSG"), false},
		"index update":       {filepath.Join(gitDir, "index"), false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev := fsnotify.Event{Name: tt.path, Op: fsnotify.Write}
			assert.Equal(t, tt.expected, w.relevant(ev))
		})
	}
}

func TestWatcherRecomputesOnCommit(t *testing.T) {
	root := t.TempDir()
	repo, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	w, err := NewWatcher(root, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	count := 0
	counted := func() int {
		mu.Lock()
		defer mu.Unlock()
		return count
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(context.Context) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}()

	// The preview runs once up front, before any git activity.
	require.Eventually(t, func() bool { return counted() >= 1 },
		2*time.Second, 10*time.Millisecond)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	_, err = wt.Commit("feat: first commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return counted() >= 2 },
		3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean exit")
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcherRecomputeFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	w, err := NewWatcher(root)
	require.NoError(t, err)
	defer w.Close()

	wantErr := fmt.Errorf("history scan failed")
	err = w.Watch(context.Background(), func(context.Context) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	root := t.TempDir()
	_, err := gogit.PlainInit(root, false)
	require.NoError(t, err)

	w, err := NewWatcher(root)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
