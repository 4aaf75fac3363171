package checks

import (
	"context"
	"fmt"
	"sort"

	"spaces-sync/core/localfs"
	"spaces-sync/core/storage"
)

// DriftReport compares the bucket listing with the local tree by key and size.
// No object bodies are fetched, so equal sizes with different content go unnoticed.
type DriftReport struct {
	Bucket        string   `json:"bucket"`
	LocalFiles    int      `json:"local_files"`
	RemoteObjects int      `json:"remote_objects"`
	Missing       []string `json:"missing"`
	Orphans       []string `json:"orphans"`
	SizeMismatch  []string `json:"size_mismatch"`
}

// InSync reports whether no drift was found.
func (r *DriftReport) InSync() bool {
	return len(r.Missing) == 0 && len(r.Orphans) == 0 && len(r.SizeMismatch) == 0
}

// CheckDrift lists the bucket and walks the tree, returning keys that a sync
// would touch. Directory markers are ignored.
func CheckDrift(ctx context.Context, client storage.Client, bucket string, tree *localfs.Tree) (*DriftReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	files, err := tree.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate local files: %w", err)
	}
	objects, err := client.ListObjects(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket: %w", err)
	}

	remote := make(map[string]int64, len(objects))
	for _, obj := range objects {
		if storage.IsDirMarker(obj.Key) {
			continue
		}
		remote[obj.Key] = obj.Size
	}

	report := &DriftReport{
		Bucket:        bucket,
		LocalFiles:    len(files),
		RemoteObjects: len(remote),
		Missing:       []string{},
		Orphans:       []string{},
		SizeMismatch:  []string{},
	}

	local := make(map[string]struct{}, len(files))
	for _, f := range files {
		local[f.Key] = struct{}{}
		size, ok := remote[f.Key]
		switch {
		case !ok:
			report.Missing = append(report.Missing, f.Key)
		case size != f.Size:
			report.SizeMismatch = append(report.SizeMismatch, f.Key)
		}
	}
	for key := range remote {
		if _, ok := local[key]; !ok {
			report.Orphans = append(report.Orphans, key)
		}
	}

	sort.Strings(report.Missing)
	sort.Strings(report.Orphans)
	sort.Strings(report.SizeMismatch)
	return report, nil
}
