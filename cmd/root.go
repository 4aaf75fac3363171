package cmd

import (
	"fmt"
	"os"

	"spaces-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "spaces-sync",
	Short: "Mirror a local content directory into an object storage bucket",
	Long: `spaces-sync makes a bucket on DigitalOcean Spaces, AWS S3 or MinIO match
the files under a local content directory: orphaned objects are deleted,
new files are uploaded and changed files are replaced.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with ISO8601 timestamps reads better on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
