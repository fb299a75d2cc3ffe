package scenelib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lib")
	require.NoError(t, Unpack(dir))

	files, err := Files()
	require.NoError(t, err)
	assert.Contains(t, files, "structured_light.py")

	for _, f := range files {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}

	// unpacking twice keeps local content in sync
	target := filepath.Join(dir, "structured_light.py")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))
	require.NoError(t, Unpack(dir))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "def main_script_logic"))
}

func TestScriptExposesEntryPoints(t *testing.T) {
	data, err := embeddedLib.ReadFile("scenelib/structured_light.py")
	require.NoError(t, err)
	src := string(data)

	for _, fn := range []string{
		"def main_script_logic(",
		"def build_rig(",
		"def setup_scene_units(",
		"def import_and_prepare_stl(",
		"def setup_compositor_nodes(",
		"def record_parameters_to_file(",
		"def render_views(",
	} {
		assert.Contains(t, src, fn)
	}
	for _, marker := range []string{"PROGRESS:", "Output files saved to:", "Parameters saved to:"} {
		assert.Contains(t, src, marker)
	}
}
