package utils

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/scenelib"
)

// try several locations to find a Blender executable, starting with the
// configured one.
func GetBlenderPath(configured string) (string, error) {
	// 1. advanced.blender_path
	if configured != "" {
		if filepath.IsAbs(configured) {
			if _, err := os.Stat(configured); err == nil {
				return configured, nil
			}
		} else if p, err := exec.LookPath(configured); err == nil {
			return p, nil
		}
	}

	// 2. BLENDER_PATH env var
	if p := os.Getenv("BLENDER_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	// 3. LookPath
	if p, err := exec.LookPath("blender"); err == nil {
		return p, nil
	}

	// 4. Platform-specific fallbacks
	switch runtime.GOOS {
	case "darwin":
		p := "/Applications/Blender.app/Contents/MacOS/Blender"
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	case "windows":
		p := `C:\Program Files\Blender Foundation\Blender\blender.exe`
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", errors.New("blender executable not found")
}

// try several locations to find the scene library
func GetLibPath() (string, error) {
	// 1. SLGEN_LIB_PATH env var
	if p := os.Getenv("SLGEN_LIB_PATH"); p != "" {
		return filepath.Abs(p)
	}

	// 2. Check if local scenelib directory exists
	localPath := "./scenelib/scenelib/"
	if _, err := os.Stat(localPath); err == nil {
		absPath, err := filepath.Abs(localPath)
		if err == nil {
			return absPath, nil
		}
	}

	// 3. Unpack embedded scenelib into .cache/slgen/scenelib
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(filepath.Join(cacheDir, "slgen", "scenelib"))
	if err != nil {
		return "", err
	}

	if err = scenelib.Unpack(absPath); err != nil {
		return "", err
	}
	if files, err := scenelib.Files(); err == nil {
		logs.Info.Printf("scenelib unpacked to %s (%s)\n", absPath, strings.Join(files, ", "))
	}

	return absPath, nil
}

// create the next sequential run directory inside `outputDir`, i.e. one
// greater than the largest numeric entry. `outputDir` is created if missing.
func GetSequentialOutputDir(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return "", err
	}

	files, err := os.ReadDir(outputDir)
	if err != nil {
		return "", err
	}

	var maxVal int64 = 0

	for _, file := range files {
		i, err := strconv.ParseInt(file.Name(), 10, 64)
		if err == nil && i > maxVal {
			maxVal = i
		}
	}

	runDir := filepath.Join(outputDir, fmt.Sprint(maxVal+1))
	if err := os.Mkdir(runDir, os.ModePerm); err != nil {
		return "", err
	}
	return runDir, nil
}

// wait for command to quit and notify through channel
func WaitCmd(c *exec.Cmd) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- c.Wait() }()
	return ch
}
