package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spaces-sync/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOpts syncFlags

// checkCmd reports listing-level drift and fails when any is found.
var checkCmd = &cobra.Command{
	Use:   "check [base-dir]",
	Short: "Report drift between the bucket and the content directory",
	Long: `Compares the bucket listing with the local files by key and size without
downloading anything. Exits non-zero when drift is found, for use in CI.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, cmd, args, &checkOpts)
	if err != nil {
		return err
	}
	defer env.close()

	report, err := checks.CheckDrift(ctx, env.client, env.cfg.Storage.Bucket, env.tree)
	if err != nil {
		return err
	}

	env.logger.Info("Drift report",
		zap.Int("local_files", report.LocalFiles),
		zap.Int("remote_objects", report.RemoteObjects),
		zap.Int("missing", len(report.Missing)),
		zap.Int("orphans", len(report.Orphans)),
		zap.Int("size_mismatch", len(report.SizeMismatch)),
	)
	for _, key := range report.Missing {
		env.logger.Info("Missing remotely", zap.String("key", key))
	}
	for _, key := range report.Orphans {
		env.logger.Info("Orphaned object", zap.String("key", key))
	}
	for _, key := range report.SizeMismatch {
		env.logger.Info("Size differs", zap.String("key", key))
	}

	if !report.InSync() {
		return fmt.Errorf("bucket %s has drifted from %s", env.cfg.Storage.Bucket, env.tree.Root())
	}
	env.logger.Info("Bucket matches the content directory")
	return nil
}
