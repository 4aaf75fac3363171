package reconcile

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config holds the sync settings loaded from the environment.
type Config struct {
	// BaseDir is the project directory that contains the content directory.
	BaseDir string `mapstructure:"base_dir" default:"."`
	// ContentDir is the subdirectory of BaseDir mirrored to the bucket.
	ContentDir string `mapstructure:"content_dir" default:"content"`
	// Workers bounds concurrent per-key operations.
	Workers int `mapstructure:"workers" default:"1"`
	// ReplaceMode is delete-upload or overwrite.
	ReplaceMode string `mapstructure:"replace_mode" default:"delete-upload"`
	// Compare is bytes or sha256.
	Compare string `mapstructure:"compare" default:"bytes"`
	// PublicRead uploads objects as publicly readable.
	PublicRead bool `mapstructure:"public_read" default:"true"`
	// StrictFetch fails on fetch errors other than a missing object.
	StrictFetch bool `mapstructure:"strict_fetch" default:"false"`
	// DryRun plans without mutating.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// Ignore lists gitignore-style patterns excluded from the mirror.
	Ignore []string `mapstructure:"ignore" default:""`
	// TimeoutSeconds is an overall deadline for a run; 0 disables it.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"0"`
}

// ContentRoot returns the directory whose files become objects.
func (c Config) ContentRoot() string {
	return filepath.Join(c.BaseDir, c.ContentDir)
}

// Timeout returns the run deadline, or zero when none is configured.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Options converts the configuration into run options.
func (c Config) Options() Options {
	return Options{
		DryRun:      c.DryRun,
		Workers:     c.Workers,
		ReplaceMode: ReplaceMode(c.ReplaceMode),
		Compare:     CompareMode(c.Compare),
		PublicRead:  c.PublicRead,
		StrictFetch: c.StrictFetch,
	}
}

// Validate rejects settings the engine cannot honour.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("sync.workers must be at least 1, got %d", c.Workers)
	}
	switch ReplaceMode(c.ReplaceMode) {
	case ReplaceDeleteUpload, ReplaceOverwrite:
	default:
		return fmt.Errorf("sync.replace_mode must be %q or %q, got %q", ReplaceDeleteUpload, ReplaceOverwrite, c.ReplaceMode)
	}
	switch CompareMode(c.Compare) {
	case CompareBytes, CompareSHA256:
	default:
		return fmt.Errorf("sync.compare must be %q or %q, got %q", CompareBytes, CompareSHA256, c.Compare)
	}
	if c.ContentDir == "" {
		return fmt.Errorf("sync.content_dir is required")
	}
	return nil
}
