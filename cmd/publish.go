package cmd

import (
	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
	"github.com/Rapid-Vision/slgen/cmd/internal/publish"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish <run-dir>",
	Short: "Upload a finished run to S3 compatible storage",
	Long: `Upload every file of a run directory to a bucket. Connection settings come
from flags or SLGEN_S3_* environment variables, which may be kept in .env.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := publish.LoadOptions(cmd.Flags())
		if err != nil {
			logs.Err.Fatalln("Failed to read storage options:", err)
		}

		sum, err := publish.Upload(cmd.Context(), opts, args[0])
		if err != nil {
			logs.Err.Fatalln("Upload failed:", err)
		}
		logs.Info.Printf("Uploaded %d objects (%d bytes) to %s\n", sum.Objects, sum.Bytes, opts.Bucket)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publish.AddFlags(publishCmd.Flags())
}
