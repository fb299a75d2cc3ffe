package preview

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/launcher"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/utils"
	"github.com/Rapid-Vision/slgen/cmd/internal/watcher"
)

// Preview opens Blender with the rig built from src and restarts it whenever
// the config file or the generation script changes. It returns once Blender
// is closed or an interrupt arrives.
func Preview(ctx context.Context, src config.Source) error {
	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	blenderPath, err := utils.GetBlenderPath(cfg.Advanced.BlenderPath)
	if err != nil {
		return err
	}
	libPath, err := utils.GetLibPath()
	if err != nil {
		return err
	}
	logs.Info.Println("scenelib path:", libPath)

	runDir, err := os.MkdirTemp("", "slgen-preview-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(runDir)

	l := &launcher.Launcher{BlenderPath: blenderPath, LibPath: libPath}

	// Handle Ctrl-C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		cmd, cleanup, err := l.StartRig(ctx, cfg, runDir)
		if err != nil {
			return err
		}

		changed := make(chan string, 1)
		watchCtx, stopWatch := context.WithCancel(ctx)
		watched := []string{src.File, l.ScriptPath(cfg)}
		go func() {
			err := watcher.Watch(watchCtx, watched, func(p string) {
				select {
				case changed <- p:
				default:
				}
			})
			if err != nil {
				logs.Warn.Println("Watch error:", err)
			}
		}()

		waitCh := utils.WaitCmd(cmd)
		restart := false

		select {
		case <-ctx.Done():
			logs.Info.Println("Preview cancelled, terminating Blender...")
			terminate(cmd, waitCh)
		case <-sigCh:
			logs.Info.Println("Interrupt received, terminating Blender...")
			terminate(cmd, waitCh)
		case p := <-changed:
			logs.Info.Println("Changed:", p, "- restarting Blender")
			terminate(cmd, waitCh)
			restart = true
		case err = <-waitCh:
			if err != nil {
				logs.Info.Println("Blender exited with error:", err)
			} else {
				logs.Info.Println("Blender exited.")
			}
		}

		stopWatch()
		cleanup()
		if !restart {
			return nil
		}

		next, err := config.Load(src)
		if err != nil {
			logs.Warn.Println("Keeping previous configuration:", err)
			continue
		}
		cfg = next
	}
}

func terminate(cmd *exec.Cmd, waitCh <-chan error) {
	_ = cmd.Process.Signal(syscall.SIGTERM)
	<-waitCh
}
