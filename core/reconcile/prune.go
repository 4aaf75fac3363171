package reconcile

import (
	"context"

	"spaces-sync/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prune lists the bucket and deletes every object whose key has no local file.
// It returns the listing (directory markers excluded) for the upload pass.
// Nothing is mutated when the listing fails.
func (s *Syncer) Prune(ctx context.Context, opts Options, report *Report) (RemoteIndex, error) {
	opts = opts.normalized()

	// A missing root would make every object look orphaned.
	if err := s.tree.Check(); err != nil {
		return nil, wrap(ErrLocalAccess, "check root", err)
	}

	objects, err := s.client.ListObjects(ctx, s.bucket)
	if err != nil {
		return nil, wrap(ErrRemoteListing, "list "+s.bucket, err)
	}

	remote := make(RemoteIndex, len(objects))
	for _, obj := range objects {
		if storage.IsDirMarker(obj.Key) {
			continue
		}
		remote[obj.Key] = obj
	}
	report.record(func(sum *Summary) { sum.RemoteObjects = len(remote) })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, obj := range objects {
		if storage.IsDirMarker(obj.Key) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.pruneKey(gctx, opts, report, obj)
		})
	}
	if err := g.Wait(); err != nil {
		return remote, err
	}
	return remote, nil
}

func (s *Syncer) pruneKey(ctx context.Context, opts Options, report *Report, obj storage.ObjectInfo) error {
	exists, err := s.tree.Exists(obj.Key)
	if err != nil {
		return wrap(ErrLocalAccess, "stat "+obj.Key, err)
	}
	if exists {
		return nil
	}

	s.logger.Info("Deleting orphan object", zap.String("key", obj.Key), zap.Bool("dry_run", opts.DryRun))
	if !opts.DryRun {
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key); err != nil {
			return wrap(ErrMutation, "delete "+obj.Key, err)
		}
		s.forget(ctx, obj.Key)
	}
	report.record(func(sum *Summary) { sum.Deleted++ },
		Action{Type: ActionDelete, Key: obj.Key, Reason: ReasonOrphan, Size: obj.Size})
	return nil
}
