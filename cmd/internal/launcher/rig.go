package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
)

// StartRig opens Blender with its UI and builds the rig for cfg without
// rendering. The caller waits on the returned command and must call cleanup
// once it has exited.
func (l *Launcher) StartRig(ctx context.Context, cfg *config.Config, runDir string) (*exec.Cmd, func(), error) {
	if err := CheckExecutable(ctx, l.BlenderPath); err != nil {
		return nil, nil, err
	}
	scriptFile, cleanup, err := l.Prepare(cfg, runDir, ModeRig)
	if err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(l.BlenderPath, "--python", scriptFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("start blender: %w", err)
	}
	logs.Info.Printf("Blender started (PID %d)\n", cmd.Process.Pid)
	return cmd, cleanup, nil
}
