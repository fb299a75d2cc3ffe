package cmd

import (
	"path/filepath"

	"github.com/Rapid-Vision/slgen/cmd/internal/dataset"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/placement"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Preview what a generation run would produce",
	Long: `Scan the model and pattern folders, predict the number of output files and
report how every model will be scaled and placed, without starting Blender.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadGenerateConfig(cmd)

		inv, err := dataset.Scan(cfg.Paths.STLFolder, cfg.Paths.PatternFolder)
		if err != nil {
			logs.Err.Fatalln("Failed to scan inputs:", err)
		}
		for _, r := range inv.Rejected {
			logs.Warn.Printf("Pattern %s rejected: %s\n", filepath.Base(r.Path), r.Reason)
		}
		for _, p := range inv.SizeMismatches(cfg.Render.Resolution[0], cfg.Render.Resolution[1]) {
			logs.Warn.Printf("Pattern %s is %dx%d, render resolution is %dx%d\n",
				filepath.Base(p.Path), p.Width, p.Height, cfg.Render.Resolution[0], cfg.Render.Resolution[1])
		}

		exp := inv.Expected(cfg)
		logs.Info.Printf("%d models, %d patterns, %d views per model\n", len(inv.Models), len(inv.Patterns), cfg.Views())
		logs.Info.Printf("Expected: %d pattern, %d depth, %d ambient images and %d parameters file\n",
			exp.Pattern, exp.Depth, exp.Ambient, exp.Parameters)

		for _, m := range inv.Models {
			r, err := placement.Inspect(m, cfg)
			if err != nil {
				logs.Warn.Printf("%s: %v\n", filepath.Base(m), err)
				continue
			}
			size := r.Model.Bounds.Size()
			logs.Info.Printf("%s: %d triangles, size %.2f x %.2f x %.2f, scale %.4f\n",
				filepath.Base(m), r.Model.Triangles, size.X, size.Y, size.Z, r.Normalization.Scale)
			for _, v := range r.Clipped {
				logs.Warn.Printf("%s: view y=%g z=%g falls outside the camera clip range\n", filepath.Base(m), v.YDeg, v.ZDeg)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addGenerateFlags(inspectCmd)
}
