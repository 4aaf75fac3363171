// Package reconcile mirrors a local content tree into an object storage bucket.
//
// A run has two passes separated by a barrier:
//
// 1. Prune: list the bucket and delete every object whose key has no local
// file. Directory markers are ignored.
//
// 2. Sync: enumerate the local tree and, for each file, fetch the remote copy.
// A missing object is uploaded as new. An identical object is left alone.
// A different object is replaced, either by delete then upload or by a single
// overwrite.
//
// All prune deletes finish before the first upload starts, so a delete never
// races an upload of the same key. Within each pass up to Options.Workers keys
// are processed at once; the first error cancels the pass and is returned with
// the partial Report.
//
// A failed fetch classifies the file as new and uploads it, whatever the
// cause. With Options.StrictFetch only a "no such key" response does; any
// other fetch failure aborts the run.
//
// # Manifest
//
// With a Manifest attached, each verified (bucket, key) is remembered with its
// listing ETag and local SHA-256. A later run skips the fetch when both still
// match.
//
// # Usage
//
//	tree := localfs.NewTree(cfg.Sync.ContentRoot(), cfg.Sync.Ignore...)
//	syncer := reconcile.NewSyncer(client, cfg.Storage.Bucket, tree, log)
//	report, err := syncer.Run(ctx, cfg.Sync.Options())
package reconcile
