package cmd

import (
	"io"
	"os"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var logFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "slgen",
	Short: "Structured light dataset generator",
	Long: `Render synthetic structured light datasets with Blender: STL models lit by
projected patterns, with per-pattern depth maps, ambient shots and the
camera/projector calibration of the scene.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("log-file")
		if path == "" {
			return
		}
		c, err := logs.SetFile(path)
		if err != nil {
			logs.Warn.Println("Can't open log file:", err)
			return
		}
		logFile = c
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().String("log-file", "logs/slgen.log", "Append logs to this file, empty disables it")
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// configSource describes the configuration named by --config. keys maps
// dotted config keys to flag names of cmd; only flags given on the command
// line override the file.
func configSource(cmd *cobra.Command, keys map[string]string) config.Source {
	path, _ := cmd.Flags().GetString("config")
	src := config.Source{
		File:     path,
		Required: cmd.Flags().Changed("config"),
		Flags:    map[string]*pflag.Flag{},
	}
	for key, name := range keys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			src.Flags[key] = f
		}
	}
	return src
}

func loadConfig(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	return config.Load(configSource(cmd, keys))
}

func mustLoadConfig(cmd *cobra.Command, keys map[string]string) *config.Config {
	cfg, err := loadConfig(cmd, keys)
	if err != nil {
		logs.Err.Fatalln("Failed to load configuration:", err)
	}
	return cfg
}
