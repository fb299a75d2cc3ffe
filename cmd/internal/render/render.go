package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/dataset"
	"github.com/Rapid-Vision/slgen/cmd/internal/launcher"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/utils"
)

var ErrNothingToRender = errors.New("nothing to render")

type Options struct {
	Progress launcher.ProgressFunc
	// Echo mirrors Blender's stdout into the log.
	Echo bool
}

type outcome struct {
	res *launcher.Result
	err error
}

// Render validates cfg, launches one headless Blender run into a fresh
// sequential directory under the output folder and waits for it or for an
// interrupt. An interrupt terminates Blender.
func Render(ctx context.Context, cfg *config.Config, opts Options) (*launcher.Result, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	inv, err := dataset.Scan(cfg.Paths.STLFolder, cfg.Paths.PatternFolder)
	if err != nil {
		return nil, err
	}
	for _, r := range inv.Rejected {
		logs.Warn.Printf("Skipping pattern %s: %s\n", r.Path, r.Reason)
	}
	if len(inv.Models) == 0 {
		return nil, fmt.Errorf("%w: no .stl files in %s", ErrNothingToRender, cfg.Paths.STLFolder)
	}
	if len(inv.Patterns) == 0 {
		return nil, fmt.Errorf("%w: no pattern images in %s", ErrNothingToRender, cfg.Paths.PatternFolder)
	}
	for _, p := range inv.SizeMismatches(cfg.Render.Resolution[0], cfg.Render.Resolution[1]) {
		logs.Warn.Printf("Pattern %s is %dx%d, render resolution is %dx%d\n",
			filepath.Base(p.Path), p.Width, p.Height, cfg.Render.Resolution[0], cfg.Render.Resolution[1])
	}
	expected := inv.Expected(cfg)
	logs.Info.Printf("%d models x %d views x %d patterns, expecting %d files\n",
		len(inv.Models), cfg.Views(), len(inv.Patterns), expected.Total())

	blenderPath, err := utils.GetBlenderPath(cfg.Advanced.BlenderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", launcher.ErrBlenderNotFound, err)
	}

	libPath, err := utils.GetLibPath()
	if err != nil {
		return nil, fmt.Errorf("can't find scenelib: %w", err)
	}
	logs.Info.Println("scenelib path:", libPath)

	outputDir, err := filepath.Abs(cfg.Paths.OutputFolder)
	if err != nil {
		return nil, err
	}
	runDir, err := utils.GetSequentialOutputDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("can't create new output directory: %w", err)
	}
	logs.Info.Println("Writing run to", runDir)

	l := &launcher.Launcher{BlenderPath: blenderPath, LibPath: libPath, Echo: opts.Echo}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		res, err := l.Run(runCtx, cfg, runDir, opts.Progress)
		done <- outcome{res, err}
	}()

	// Handle Ctrl-C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var out outcome
	select {
	case <-sigCh:
		logs.Info.Println("Interrupt received, terminating Blender...")
		cancel()
		out = <-done
	case out = <-done:
	}
	if out.err != nil {
		return nil, out.err
	}

	got, err := dataset.Count(runDir)
	if err != nil {
		logs.Warn.Println("Counting output files:", err)
	} else if got != expected {
		logs.Warn.Printf("Run produced %+v, expected %+v\n", got, expected)
	}

	if opts.Progress != nil {
		opts.Progress(100, "done")
	}
	return out.res, nil
}
