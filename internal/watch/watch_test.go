package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - Missing root fails construction
// - Irrelevant events (wrong extension, chmod) are filtered
// - A write to a watched file produces one debounced batch
// - Stop is idempotent

func TestWatch_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"), []string{".go"}, nil)
	assert.Error(t, err)
}

func TestWatch_RelevantFiltersExtensions(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), []string{".ts", ".GO"}, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.relevant(fsnotify.Event{Name: "a.ts", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "b.go", Op: fsnotify.Write}), "extension match is case-insensitive")
	assert.False(t, w.relevant(fsnotify.Event{Name: "c.txt", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "a.ts", Op: fsnotify.Chmod}))
}

func TestWatch_DebouncedBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	w, err := New(dir, []string{".go"}, nil)
	require.NoError(t, err)
	defer w.Stop()
	w.debounce = 50 * time.Millisecond

	batches := make(chan []string, 4)
	require.NoError(t, w.Start(context.Background(), func(files []string) {
		batches <- files
	}))

	// Two quick writes should coalesce into one batch.
	require.NoError(t, os.WriteFile(target, []byte("package main // a\n"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("package main // b\n"), 0o644))

	select {
	case files := <-batches:
		assert.Contains(t, files, target)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch fired")
	}
}

func TestWatch_StopIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New(t.TempDir(), []string{".go"}, nil)
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
