package cmd

import (
	"context"
	"fmt"

	"spaces-sync/core/config"
	"spaces-sync/core/database"
	"spaces-sync/core/localfs"
	"spaces-sync/core/logger"
	"spaces-sync/core/manifest"
	"spaces-sync/core/reconcile"
	"spaces-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncFlags are the run overrides shared by sync, plan and serve.
type syncFlags struct {
	dryRun      bool
	workers     int
	replaceMode string
	compare     string
	strictFetch bool
}

func (f *syncFlags) register(cmd *cobra.Command, withDryRun bool) {
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report what would change without mutating the bucket")
	}
	cmd.Flags().IntVar(&f.workers, "workers", 1, "Number of keys processed concurrently")
	cmd.Flags().StringVar(&f.replaceMode, "replace-mode", string(reconcile.ReplaceDeleteUpload), "How changed objects are replaced (delete-upload, overwrite)")
	cmd.Flags().StringVar(&f.compare, "compare", string(reconcile.CompareBytes), "Content comparison (bytes, sha256)")
	cmd.Flags().BoolVar(&f.strictFetch, "strict-fetch", false, "Fail on fetch errors other than a missing object")
}

// apply copies explicitly set flags over the loaded configuration.
func (f *syncFlags) apply(cmd *cobra.Command, cfg *reconcile.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("replace-mode") {
		cfg.ReplaceMode = f.replaceMode
	}
	if flags.Changed("compare") {
		cfg.Compare = f.compare
	}
	if flags.Changed("strict-fetch") {
		cfg.StrictFetch = f.strictFetch
	}
}

// environment is everything a command needs to run the sync engine.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	tree   *localfs.Tree
	syncer *reconcile.Syncer
	close  func()
}

// setup loads configuration for baseDir, applies flag overrides, connects to
// storage and checks that the bucket exists.
func setup(ctx context.Context, cmd *cobra.Command, args []string, flags *syncFlags) (*environment, error) {
	baseDir := "."
	if len(args) > 0 {
		baseDir = args[0]
	}

	cfg, err := config.LoadConfig(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Sync.BaseDir = baseDir
	}
	flags.apply(cmd, &cfg.Sync)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	if err := preflight(ctx, client, cfg.Storage); err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, logger: l, client: client, close: func() { _ = l.Sync() }}
	env.tree = localfs.NewTree(cfg.Sync.ContentRoot(), cfg.Sync.Ignore...)
	env.syncer = reconcile.NewSyncer(client, cfg.Storage.Bucket, env.tree, l)

	if cfg.Manifest.Enabled {
		store, closeDB, err := openManifest(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		env.syncer.WithManifest(store)
		env.close = func() {
			closeDB()
			_ = l.Sync()
		}
		l.Info("Manifest enabled", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))
	}
	return env, nil
}

// preflight fails fast when the bucket is missing or unreachable.
func preflight(ctx context.Context, client storage.Client, cfg storage.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}
	return nil
}

func openManifest(ctx context.Context, cfg database.Config) (*manifest.Store, func(), error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	store := manifest.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	return store, closeDB, nil
}

// runContext applies the configured run deadline, if any.
func runContext(ctx context.Context, cfg reconcile.Config) (context.Context, context.CancelFunc) {
	if t := cfg.Timeout(); t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}
