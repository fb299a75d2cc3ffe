package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/Rapid-Vision/slgen/cmd/internal/dataset"
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			logs.Err.Fatalln(path, "already exists, use --force to overwrite it")
		}

		def := config.Default()
		if err := config.Save(&def, path); err != nil {
			logs.Err.Fatalln("Failed to write configuration:", err)
		}
		logs.Info.Println("Default configuration written to", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after merging defaults, the config file and SLGEN_* environment variables.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd, nil)
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			logs.Err.Fatalln(err)
		}
		fmt.Println(string(data))
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save the effective configuration to a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd, nil)
		if err := config.Save(cfg, args[0]); err != nil {
			logs.Err.Fatalln("Failed to save configuration:", err)
		}
		logs.Info.Println("Configuration saved to", args[0])
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the input folders",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig(cmd, nil)
		if err := config.Validate(cfg); err != nil {
			logs.Err.Fatalln("Invalid configuration:\n" + err.Error())
		}

		inv, err := dataset.Scan(cfg.Paths.STLFolder, cfg.Paths.PatternFolder)
		if err != nil {
			logs.Err.Fatalln("Failed to scan inputs:", err)
		}
		for _, r := range inv.Rejected {
			logs.Warn.Printf("Pattern %s rejected: %s\n", r.Path, r.Reason)
		}
		if len(inv.Models) == 0 || len(inv.Patterns) == 0 {
			logs.Err.Fatalf("Nothing to render: %d models, %d patterns\n", len(inv.Models), len(inv.Patterns))
		}
		logs.Info.Printf("Configuration is valid: %d models, %d patterns\n", len(inv.Models), len(inv.Patterns))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configSaveCmd, configValidateCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}
