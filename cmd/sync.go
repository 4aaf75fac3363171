package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var syncOpts syncFlags

// syncCmd mirrors the content directory into the bucket.
var syncCmd = &cobra.Command{
	Use:   "sync [base-dir]",
	Short: "Mirror the content directory into the bucket",
	Long: `Deletes objects with no local file, then uploads every new or changed
file under <base-dir>/<content_dir>. Unchanged objects are left alone.

Examples:
  # Sync the current project
  spaces-sync sync

  # Preview the changes for another project
  spaces-sync sync ./site --dry-run

  # Faster run against a store that overwrites by key
  spaces-sync sync --workers 8 --replace-mode overwrite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncOpts.register(syncCmd, true)
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, cmd, args, &syncOpts)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := runContext(ctx, env.cfg.Sync)
	defer cancel()

	report, err := env.syncer.Run(ctx, env.cfg.Sync.Options())
	if report != nil {
		printReport(env.logger, report)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}
