package cmd

import (
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Open the rig in Blender",
	Long: `Open a Blender window with the camera, projector, reference plane and first
model set up, without rendering. Blender restarts whenever the configuration
file or the generation script changes.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := preview.Preview(cmd.Context(), configSource(cmd, nil)); err != nil {
			logs.Err.Fatalln("Preview failed:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
