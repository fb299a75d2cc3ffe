package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewRestartsOnConfigChange(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a unix shell")
	}
	work := t.TempDir()
	t.Setenv("SLGEN_FAKE_DIR", work)
	t.Setenv("SLGEN_LIB_PATH", t.TempDir())

	blender := filepath.Join(t.TempDir(), "blender")
	require.NoError(t, os.WriteFile(blender, []byte("#!/bin/sh\necho start >> \"$SLGEN_FAKE_DIR/starts\"\nexec sleep 30\n"), 0755))

	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.json")
	writeConfig := func(samples int) {
		data := fmt.Sprintf(`{"render": {"samples": %d}, "advanced": {"blender_path": %q}}`, samples, blender)
		require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))
	}
	writeConfig(16)

	starts := func() int {
		data, _ := os.ReadFile(filepath.Join(work, "starts"))
		return strings.Count(string(data), "start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- Preview(ctx, config.Source{File: cfgPath, Required: true}) }()

	require.Eventually(t, func() bool { return starts() == 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	writeConfig(32)
	require.Eventually(t, func() bool { return starts() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not stop after cancel")
	}
}

func TestPreviewMissingConfig(t *testing.T) {
	err := Preview(context.Background(), config.Source{File: filepath.Join(t.TempDir(), "none.json"), Required: true})
	assert.Error(t, err)
}
