package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	versionTimeout    = 10 * time.Second
	connectionTimeout = 30 * time.Second

	connectionOK = "Connection test successful"
)

const connectionScript = `import bpy
import sys
print("Blender version:", bpy.app.version_string)
print("Python version:", sys.version)
print("` + connectionOK + `")
`

// CheckExecutable makes sure path points at something runnable. Absolute paths
// only need to exist as a regular file; anything else must answer --version.
func CheckExecutable(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrBlenderNotFound)
	}
	if filepath.IsAbs(path) {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrBlenderNotFound, path)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrBlenderNotFound, path)
		}
		return nil
	}
	if _, err := Version(ctx, path); err != nil {
		return err
	}
	return nil
}

// Version runs `<path> --version` and returns the first line of its output.
func Version(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s --version timed out", ErrBlenderNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrBlenderNotFound, path, err)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(first), nil
}

// ProbeConnection runs a tiny script inside a background Blender and reports
// the version line it printed.
func ProbeConnection(ctx context.Context, path string) (string, error) {
	script, err := writeTemp("slgen-connection-*.py", []byte(connectionScript))
	if err != nil {
		return "", err
	}
	defer removeTemp(script)

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--background", "--python", script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("blender connection test timed out after %s", connectionTimeout)
	}
	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return "", fmt.Errorf("%w: %s", ErrBlenderNotFound, path)
	}
	if runErr != nil || !strings.Contains(stdout.String(), connectionOK) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown error during script execution"
		}
		return "", fmt.Errorf("blender connection test failed: %s", msg)
	}

	for _, line := range strings.Split(stdout.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "Blender version:"); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}
