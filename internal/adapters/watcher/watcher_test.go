package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/darkroom/internal/adapters/watcher"
	"go.trai.ch/darkroom/internal/core/ports"
)

func TestWatcher_ReportsOnlyTargets(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "graph.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("nodes: []\n"), 0o600))

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, w.Start(ctx, doc))

	got := make(chan ports.WatchEvent, 8)
	go func() {
		for ev := range w.Events() {
			got <- ev
		}
		close(got)
	}()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(doc, []byte("nodes: []\nedges: []\n"), 0o600))

	select {
	case ev := <-got:
		abs, _ := filepath.Abs(doc)
		assert.Equal(t, abs, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file event")
	}

	require.NoError(t, w.Stop())
	for range got {
	}
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(t.Context(), filepath.Join(t.TempDir(), "missing", "graph.yaml"))
	require.ErrorContains(t, err, "failed to watch directory")
}
