package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsWrittenFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	script := filepath.Join(dir, "scene.py")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{cfg, script, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := map[string]int{}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{cfg, script}, func(p string) {
			mu.Lock()
			seen[p]++
			mu.Unlock()
		})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("y"), 0644))
	require.NoError(t, os.WriteFile(script, []byte("y"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen[script] > 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, seen[other])
	assert.Zero(t, seen[cfg])
}

func TestWatchStopsOnCancel(t *testing.T) {
	f := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(f, nil, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Watch(ctx, []string{f}, func(string) {}))
}
