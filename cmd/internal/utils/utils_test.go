package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSequentialOutputDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	first, err := GetSequentialOutputDir(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "1"), first)
	assert.DirExists(t, first)

	require.NoError(t, os.Mkdir(filepath.Join(out, "7"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(out, "latest"), 0755))

	next, err := GetSequentialOutputDir(out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "8"), next)
}

func TestGetBlenderPathPrefersConfigured(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "blender-4.2")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755))

	p, err := GetBlenderPath(fake)
	require.NoError(t, err)
	assert.Equal(t, fake, p)
}

func TestGetBlenderPathFallsBackToEnv(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "blender")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("BLENDER_PATH", fake)

	p, err := GetBlenderPath(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, fake, p)
}

func TestGetLibPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SLGEN_LIB_PATH", dir)

	p, err := GetLibPath()
	require.NoError(t, err)
	assert.Equal(t, dir, p)
}

func TestWaitCmd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix shell")
	}
	cmd := exec.Command("/bin/sh", "-c", "exit 3")
	require.NoError(t, cmd.Start())

	err := <-WaitCmd(cmd)
	var ee *exec.ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.ExitCode())
}

func TestGetLibPathUnpacksEmbeddedLibrary(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CACHE_HOME")
	}
	cache := t.TempDir()
	t.Setenv("SLGEN_LIB_PATH", "")
	t.Setenv("XDG_CACHE_HOME", cache)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	p, err := GetLibPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "slgen", "scenelib"), p)
	assert.FileExists(t, filepath.Join(p, "structured_light.py"))
}
