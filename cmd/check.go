package cmd

import (
	"github.com/Rapid-Vision/slgen/cmd/internal/launcher"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/utils"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that Blender can be started",
	Long:  `Locate the Blender executable, print its version and run a short python script inside it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd, map[string]string{"advanced.blender_path": "blender"})

		blenderPath, err := utils.GetBlenderPath(cfg.Advanced.BlenderPath)
		if err != nil {
			logs.Err.Fatalln("Can't find blender path:", err)
		}
		logs.Info.Println("Blender path:", blenderPath)

		if err := launcher.CheckExecutable(cmd.Context(), blenderPath); err != nil {
			logs.Err.Fatalln(err)
		}
		if v, err := launcher.Version(cmd.Context(), blenderPath); err == nil {
			logs.Info.Println(v)
		}

		v, err := launcher.ProbeConnection(cmd.Context(), blenderPath)
		if err != nil {
			logs.Err.Fatalln(err)
		}
		logs.Info.Println("Connection test successful, Blender", v)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("blender", "", "Blender executable")
}
