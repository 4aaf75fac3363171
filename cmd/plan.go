package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var planOpts syncFlags

// planCmd reports what sync would change without touching the bucket.
var planCmd = &cobra.Command{
	Use:   "plan [base-dir]",
	Short: "Show what sync would change",
	Long:  `Runs the sync engine in dry-run mode and prints the planned deletes and uploads.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

func init() {
	planOpts.register(planCmd, false)
	RootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx, cmd, args, &planOpts)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := runContext(ctx, env.cfg.Sync)
	defer cancel()

	opts := env.cfg.Sync.Options()
	opts.DryRun = true
	report, err := env.syncer.Run(ctx, opts)
	if report != nil {
		printReport(env.logger, report)
	}
	if err != nil {
		return fmt.Errorf("plan failed: %w", err)
	}
	env.logger.Info("Dry-run mode: No changes were made.")
	return nil
}
