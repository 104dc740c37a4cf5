package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatcher runs a watcher in the background and returns a channel fed on every render.
func startWatcher(t *testing.T, path string, debounce time.Duration) (<-chan struct{}, context.CancelFunc, <-chan error) {
	t.Helper()
	renders := make(chan struct{}, 16)
	w := New(path, debounce, func(context.Context) error {
		renders <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-renders:
	case <-time.After(2 * time.Second):
		t.Fatal("initial render did not happen")
	}
	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	return renders, cancel, done
}

func waitRender(renders <-chan struct{}, timeout time.Duration) bool {
	select {
	case <-renders:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherRerendersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	renders, cancel, done := startWatcher(t, path, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"period_data": []}`), 0o644))
	assert.True(t, waitRender(renders, 2*time.Second), "write should trigger a re-render")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")

	renders, cancel, done := startWatcher(t, path, 20*time.Millisecond)
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	assert.False(t, waitRender(renders, 300*time.Millisecond), "unrelated files are ignored")

	// Creating the watched file later is picked up
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	assert.True(t, waitRender(renders, 2*time.Second))
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	renders, cancel, done := startWatcher(t, path, 300*time.Millisecond)
	defer func() {
		cancel()
		<-done
	}()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i)}, 0o644))
	}
	assert.True(t, waitRender(renders, 2*time.Second))
	assert.False(t, waitRender(renders, 500*time.Millisecond), "a burst renders once")
}

func TestWatcherErrors(t *testing.T) {
	t.Run("initial render failure", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "stats.json"), 0, func(context.Context) error {
			return errors.New("boom")
		})
		assert.EqualError(t, w.Run(context.Background()), "boom")
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "stats.json")
		w := New(path, 0, func(context.Context) error { return nil })
		err := w.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to watch")
	})

	t.Run("re-render failure keeps watching", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "stats.json")
		var calls atomic.Int32
		rendered := make(chan struct{}, 8)
		w := New(path, 10*time.Millisecond, func(context.Context) error {
			n := calls.Add(1)
			rendered <- struct{}{}
			if n > 1 {
				return errors.New("decode failed")
			}
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()
		require.True(t, waitRender(rendered, 2*time.Second))
		time.Sleep(100 * time.Millisecond)

		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.True(t, waitRender(rendered, 2*time.Second))
		time.Sleep(50 * time.Millisecond)
		require.NoError(t, os.WriteFile(path, []byte("y"), 0o644))
		require.True(t, waitRender(rendered, 2*time.Second))

		cancel()
		assert.NoError(t, <-done)
	})
}

func TestRelevant(t *testing.T) {
	w := New("stats.json", 0, nil)
	target := "/data/stats.json"

	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{name: "write", evt: fsnotify.Event{Name: target, Op: fsnotify.Write}, want: true},
		{name: "create", evt: fsnotify.Event{Name: target, Op: fsnotify.Create}, want: true},
		{name: "rename", evt: fsnotify.Event{Name: target, Op: fsnotify.Rename}, want: true},
		{name: "chmod", evt: fsnotify.Event{Name: target, Op: fsnotify.Chmod}, want: false},
		{name: "remove", evt: fsnotify.Event{Name: target, Op: fsnotify.Remove}, want: false},
		{name: "other file", evt: fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, want: false},
		{name: "unclean path", evt: fsnotify.Event{Name: "/data/./stats.json", Op: fsnotify.Write}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.evt, target))
		})
	}
}
