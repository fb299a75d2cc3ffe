package cmd

import (
	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/render"
	"github.com/spf13/cobra"
)

// generateFlagKeys binds config keys to the generation flags.
var generateFlagKeys = map[string]string{
	"paths.stl_folder":         "stl",
	"paths.pattern_folder":     "patterns",
	"paths.output_folder":      "output",
	"paths.hdri_path":          "hdri",
	"render.samples":           "samples",
	"render.engine":            "engine",
	"advanced.rotation_angles": "angles",
	"advanced.blender_path":    "blender",
	"advanced.script_path":     "script",
	"advanced.seed":            "seed",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a structured light dataset",
	Long: `Validate the configuration, then run the generation script in a headless
Blender and write the dataset into the next numbered directory of the output folder.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadGenerateConfig(cmd)
		verbose, _ := cmd.Flags().GetBool("verbose")

		res, err := render.Render(cmd.Context(), cfg, render.Options{
			Echo: verbose,
			Progress: func(p float64, msg string) {
				logs.Info.Printf("[%5.1f%%] %s\n", p, msg)
			},
		})
		if err != nil {
			logs.Err.Fatalln("Generation failed:", err)
		}

		logs.Info.Println(res.Message)
		if res.ParametersFile != "" {
			logs.Info.Println("Scene parameters:", res.ParametersFile)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
	generateCmd.Flags().BoolP("verbose", "v", false, "Mirror Blender output into the log")
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("stl", "", "Folder with .stl models")
	f.String("patterns", "", "Folder with pattern images")
	f.StringP("output", "o", "", "Output folder, each run gets a numbered subdirectory")
	f.String("hdri", "", "Environment texture for the world background")
	f.Int("samples", 0, "Cycles render samples")
	f.String("engine", "", "Render engine: "+config.EngineCycles+" or "+config.EngineEEVEE)
	f.Int("width", 0, "Render width in pixels")
	f.Int("height", 0, "Render height in pixels")
	f.String("angles", "", "Comma separated model rotation angles around Y, in degrees")
	f.String("blender", "", "Blender executable")
	f.String("script", "", "Custom generation script, empty uses the bundled one")
	f.Int32("seed", 0, "Random seed for projector power and ambient light, 0 is random")
}

// loadGenerateConfig loads the configuration with every generation flag
// applied on top, --width and --height included.
func loadGenerateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd, generateFlagKeys)
	if err != nil {
		return nil, err
	}
	applyResolution(cmd, cfg)
	return cfg, nil
}

func mustLoadGenerateConfig(cmd *cobra.Command) *config.Config {
	cfg, err := loadGenerateConfig(cmd)
	if err != nil {
		logs.Err.Fatalln("Failed to load configuration:", err)
	}
	return cfg
}

// applyResolution handles --width and --height, which map onto one array key.
func applyResolution(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("width") {
		cfg.Render.Resolution[0], _ = cmd.Flags().GetInt("width")
	}
	if cmd.Flags().Changed("height") {
		cfg.Render.Resolution[1], _ = cmd.Flags().GetInt("height")
	}
}
