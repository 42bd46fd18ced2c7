package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherStartStop(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, []string{".txt"}, func(context.Context, string) {}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	// Start is idempotent while running.
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	assert.False(t, w.IsWatching())

	// Stop after stop is a no-op.
	w.Stop()
}

func TestWatcherStartMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope"), []string{".txt"}, func(context.Context, string) {}, nil)
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.Error(t, err)
	assert.False(t, w.IsWatching())
}

func TestWatcherInvokesHandlerForSupportedFile(t *testing.T) {
	dir := t.TempDir()

	var (
		mu    sync.Mutex
		seen  []string
		ready = make(chan struct{})
	)
	handler := func(_ context.Context, path string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
		select {
		case <-ready:
		default:
			close(ready)
		}
	}

	w, err := New(dir, []string{".txt"}, handler, zap.NewNop())
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	target := filepath.Join(dir, "steps.txt")
	require.NoError(t, os.WriteFile(target, []byte("- click submit\n"), 0o644))
	// Ignored extension never reaches the handler.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.log"), []byte("x"), 0o644))

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, p := range seen {
		assert.Equal(t, target, p)
	}
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, []string{".txt"}, func(context.Context, string) {}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))

	cancel()

	// The event loop exits on its own; Stop still cleans up the fsnotify
	// watcher without blocking.
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked after context cancellation")
	}
}
