// Package launcher runs the generation script inside a headless Blender and
// follows its progress on stdout.
package launcher

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
)

// DefaultScript is the generation module shipped in the scene library.
const DefaultScript = "structured_light.py"

const (
	stderrTail = 8 << 10
	killDelay  = 10 * time.Second
)

// ProgressFunc receives a percentage in 0..100 and a short status message.
type ProgressFunc func(percent float64, message string)

// Result is what a generation run hands back to the operator.
type Result struct {
	Success        bool
	Message        string
	OutputFiles    []string
	ParametersFile string
}

type Launcher struct {
	BlenderPath string
	// LibPath is the unpacked scene library holding DefaultScript.
	LibPath string
	// Echo mirrors every Blender stdout line into the info log.
	Echo bool
}

// ScriptPath resolves the generation module for cfg, preferring the configured one.
func (l *Launcher) ScriptPath(cfg *config.Config) string {
	if cfg.Advanced.ScriptPath != "" {
		if abs, err := filepath.Abs(cfg.Advanced.ScriptPath); err == nil {
			return abs
		}
		return cfg.Advanced.ScriptPath
	}
	return filepath.Join(l.LibPath, DefaultScript)
}

// Prepare writes the mapped configuration and the bootstrap script to
// temporary files. The returned cleanup removes both.
func (l *Launcher) Prepare(cfg *config.Config, runDir string, mode Mode) (scriptFile string, cleanup func(), err error) {
	mapped, err := config.MapKeys(cfg)
	if err != nil {
		return "", nil, err
	}
	mapped["run_output_path"] = runDir
	mapped["mode"] = string(mode)

	data, err := json.MarshalIndent(mapped, "", "  ")
	if err != nil {
		return "", nil, err
	}
	cfgFile, err := writeTemp("slgen-config-*.json", data)
	if err != nil {
		return "", nil, fmt.Errorf("write temp config: %w", err)
	}

	src, err := BuildScript(BootstrapParams{ConfigPath: cfgFile, ScriptPath: l.ScriptPath(cfg), Mode: mode})
	if err != nil {
		removeTemp(cfgFile)
		return "", nil, err
	}
	scriptFile, err = writeTemp("slgen-bootstrap-*.py", []byte(src))
	if err != nil {
		removeTemp(cfgFile)
		return "", nil, fmt.Errorf("write temp script: %w", err)
	}

	return scriptFile, func() {
		removeTemp(scriptFile)
		removeTemp(cfgFile)
	}, nil
}

// Run renders the dataset described by cfg into runDir and blocks until
// Blender exits. Cancelling ctx kills Blender.
func (l *Launcher) Run(ctx context.Context, cfg *config.Config, runDir string, progress ProgressFunc) (*Result, error) {
	report := func(p float64, msg string) {
		if progress != nil {
			progress(p, msg)
		}
	}

	report(10, "preparing Blender environment")
	scriptFile, cleanup, err := l.Prepare(cfg, runDir, ModeGenerate)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := CheckExecutable(ctx, l.BlenderPath); err != nil {
		return nil, err
	}

	report(20, "starting Blender")
	cmd := exec.CommandContext(ctx, l.BlenderPath, "--background", "--python", scriptFile)
	// let Blender flush its output files before it is killed
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = killDelay
	stderr := newTailBuffer(stderrTail)
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start blender: %w", err)
	}
	logs.Info.Printf("Blender started (PID %d)\n", cmd.Process.Pid)
	report(30, "running generation script")

	res := &Result{}
	var outputDir string
	stdoutTail := newTailBuffer(stderrTail)

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		fmt.Fprintln(stdoutTail, line)
		if l.Echo && strings.TrimSpace(line) != "" {
			logs.Info.Println("blender:", line)
		}

		ev := ParseLine(line)
		switch ev.Kind {
		case EventProgress:
			report(ev.Percent, fmt.Sprintf("rendering %.1f%%", ev.Percent))
		case EventBadProgress:
			logs.Warn.Printf("Unparsable progress value %q\n", ev.Path)
		case EventOutputDir:
			outputDir = ev.Path
		case EventParameters:
			res.ParametersFile = ev.Path
		}
	}
	if err := sc.Err(); err != nil {
		logs.Warn.Println("Reading Blender output:", err)
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("generation interrupted: %w", ctx.Err())
	}
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			return nil, &ExitError{
				Code:   ee.ExitCode(),
				Stderr: stderr.String(),
				Hint:   hintFor(ee.ExitCode(), stderr.String()+stdoutTail.String()),
			}
		}
		return nil, fmt.Errorf("blender: %w", waitErr)
	}

	if outputDir != "" {
		files, err := CollectOutputs(outputDir)
		if err != nil {
			logs.Warn.Println("Collecting output files:", err)
		}
		res.OutputFiles = files
	}

	report(95, "finishing")
	res.Success = true
	res.Message = fmt.Sprintf("dataset generation finished, %d output files", len(res.OutputFiles))
	return res, nil
}

// CollectOutputs lists the images, depth maps and json files under dir.
func CollectOutputs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".png", ".exr", ".json":
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

func writeTemp(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// removeTemp is best effort, failures are only logged.
func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logs.Warn.Println("Failed to remove temporary file:", err)
	}
}
