package reconcile

import (
	"context"
	"fmt"

	"spaces-sync/core/localfs"
	"spaces-sync/core/logger"
	"spaces-sync/core/manifest"
	"spaces-sync/core/storage"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Manifest remembers the last verified state of each key so unchanged files
// can be skipped without downloading them.
type Manifest interface {
	Lookup(ctx context.Context, bucket, key string) (*manifest.Entry, error)
	Record(ctx context.Context, e manifest.Entry) error
	Forget(ctx context.Context, bucket, key string) error
}

// RemoteIndex maps every listed key to its listing metadata.
type RemoteIndex map[string]storage.ObjectInfo

// Syncer mirrors a local tree into a bucket.
type Syncer struct {
	client   storage.Client
	bucket   string
	tree     *localfs.Tree
	manifest Manifest
	logger   *zap.Logger
}

// NewSyncer creates a syncer for bucket backed by tree.
func NewSyncer(client storage.Client, bucket string, tree *localfs.Tree, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		client: client,
		bucket: bucket,
		tree:   tree,
		logger: logger,
	}
}

// WithManifest enables manifest-backed skipping.
func (s *Syncer) WithManifest(m Manifest) *Syncer {
	s.manifest = m
	return s
}

// Bucket returns the target bucket name.
func (s *Syncer) Bucket() string {
	return s.bucket
}

// Run prunes orphaned objects, then uploads new and changed files.
// Every prune delete completes before the first upload starts.
// On error the partial report is returned alongside it.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Report, error) {
	opts = opts.normalized()
	report := NewReport(opts.DryRun)
	log := logger.WithRunID(s.logger, report.RunID)
	run := &Syncer{client: s.client, bucket: s.bucket, tree: s.tree, manifest: s.manifest, logger: log}

	log.Info("Starting sync",
		zap.String("bucket", s.bucket),
		zap.String("root", s.tree.Root()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("workers", opts.Workers),
		zap.String("replace_mode", string(opts.ReplaceMode)),
		zap.String("compare", string(opts.Compare)))

	remote, err := run.Prune(ctx, opts, report)
	if err != nil {
		report.finish()
		log.Error("Prune failed", zap.Error(err))
		return report, err
	}

	if err := run.SyncFiles(ctx, opts, remote, report); err != nil {
		report.finish()
		log.Error("Sync failed", zap.Error(err))
		return report, err
	}

	report.finish()
	sum := report.Summary
	log.Info("Sync complete",
		zap.Int("remote_objects", sum.RemoteObjects),
		zap.Int("local_files", sum.LocalFiles),
		zap.Int("deleted", sum.Deleted),
		zap.Int("uploaded", sum.Uploaded),
		zap.Int("replaced", sum.Replaced),
		zap.Int("skipped", sum.Skipped),
		zap.String("bytes_uploaded", humanize.Bytes(uint64(sum.BytesUploaded))),
		zap.Duration("duration", report.Duration))
	return report, nil
}

func (s *Syncer) forget(ctx context.Context, key string) {
	if s.manifest == nil {
		return
	}
	if err := s.manifest.Forget(ctx, s.bucket, key); err != nil {
		s.logger.Warn("Failed to forget manifest entry", zap.String("key", key), zap.Error(err))
	}
}

func (s *Syncer) remember(ctx context.Context, key, etag, sha string, size int64) {
	if s.manifest == nil || etag == "" {
		return
	}
	err := s.manifest.Record(ctx, manifest.Entry{Bucket: s.bucket, Key: key, ETag: etag, SHA256: sha, Size: size})
	if err != nil {
		s.logger.Warn("Failed to record manifest entry", zap.String("key", key), zap.Error(err))
	}
}

// wrap tags err with a sentinel so callers can match either.
func wrap(sentinel error, what string, err error) error {
	return fmt.Errorf("%w: %s: %w", sentinel, what, err)
}
