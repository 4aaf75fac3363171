package reconcile

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"spaces-sync/core/localfs"
	"spaces-sync/core/storage"
	"spaces-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errRemoteRead marks a failure while reading a fetched object body.
var errRemoteRead = errors.New("read remote object")

// SyncFiles enumerates the local tree and uploads every file whose remote copy
// is missing or differs. remote is the listing returned by Prune.
func (s *Syncer) SyncFiles(ctx context.Context, opts Options, remote RemoteIndex, report *Report) error {
	opts = opts.normalized()

	files, err := s.tree.Files()
	if err != nil {
		return wrap(ErrLocalAccess, "enumerate "+s.tree.Root(), err)
	}
	report.record(func(sum *Summary) { sum.LocalFiles = len(files) })

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.syncFile(gctx, opts, report, remote, f)
		})
	}
	return g.Wait()
}

func (s *Syncer) syncFile(ctx context.Context, opts Options, report *Report, remote RemoteIndex, f localfs.File) error {
	log := s.logger.With(zap.String("key", f.Key))

	var localSHA string
	if s.manifest != nil {
		if obj, listed := remote[f.Key]; listed && obj.ETag != "" {
			sha, err := digestFile(f.Path)
			if err != nil {
				return wrap(ErrLocalAccess, "read "+f.Path, err)
			}
			localSHA = sha
			if s.manifestMatches(ctx, f, obj, sha) {
				log.Debug("File matches manifest, skipping fetch")
				report.record(func(sum *Summary) { sum.Skipped++ },
					Action{Type: ActionSkip, Key: f.Key, Path: f.Path, Reason: ReasonManifest, Size: f.Size})
				return nil
			}
		}
	}

	rc, err := s.client.GetObject(ctx, s.bucket, f.Key)
	if err != nil {
		if storage.IsNotFound(err) || !opts.StrictFetch {
			return s.uploadNew(ctx, opts, report, f, nil, err)
		}
		return wrap(ErrRemoteFetch, "fetch "+f.Key, err)
	}

	equal, local, sha, err := s.compare(opts, f, rc, localSHA)
	rc.Close()
	if err != nil {
		if errors.Is(err, errRemoteRead) {
			if !opts.StrictFetch {
				return s.uploadNew(ctx, opts, report, f, local, err)
			}
			return wrap(ErrRemoteFetch, "fetch "+f.Key, err)
		}
		return wrap(ErrLocalAccess, "read "+f.Path, err)
	}

	if equal {
		log.Info("File is up to date")
		if !opts.DryRun {
			s.remember(ctx, f.Key, remote[f.Key].ETag, sha, f.Size)
		}
		report.record(func(sum *Summary) { sum.Skipped++ },
			Action{Type: ActionSkip, Key: f.Key, Path: f.Path, Reason: ReasonUpToDate, Size: f.Size})
		return nil
	}

	if opts.ReplaceMode == ReplaceOverwrite {
		log.Info("File is out of date, overwriting remote copy", zap.Bool("dry_run", opts.DryRun))
	} else {
		log.Info("File is out of date, deleting remote copy", zap.Bool("dry_run", opts.DryRun))
		if !opts.DryRun {
			if err := s.client.RemoveObject(ctx, s.bucket, f.Key); err != nil {
				return wrap(ErrMutation, "delete "+f.Key, err)
			}
			s.forget(ctx, f.Key)
		}
		report.record(nil, Action{Type: ActionDelete, Key: f.Key, Path: f.Path, Reason: ReasonOutOfDate})
	}

	log.Info("Uploading local copy")
	size, err := s.upload(ctx, opts, f, local)
	if err != nil {
		return err
	}
	report.record(func(sum *Summary) {
		sum.Replaced++
		sum.BytesUploaded += size
	}, Action{Type: ActionUpload, Key: f.Key, Path: f.Path, Reason: ReasonOutOfDate, Size: size})
	return nil
}

// uploadNew uploads a file whose key has no remote counterpart. cause is the
// fetch error that classified it as new.
func (s *Syncer) uploadNew(ctx context.Context, opts Options, report *Report, f localfs.File, local []byte, cause error) error {
	fields := []zap.Field{zap.String("key", f.Key), zap.Bool("dry_run", opts.DryRun)}
	if !storage.IsNotFound(cause) {
		fields = append(fields, zap.NamedError("fetch_error", cause))
	}
	s.logger.Info("File is new, uploading", fields...)

	size, err := s.upload(ctx, opts, f, local)
	if err != nil {
		return err
	}
	report.record(func(sum *Summary) {
		sum.Uploaded++
		sum.BytesUploaded += size
	}, Action{Type: ActionUpload, Key: f.Key, Path: f.Path, Reason: ReasonNew, Size: size})
	return nil
}

// compare checks the fetched body against the local file. In bytes mode the
// local content is returned so the upload does not read the file twice.
// Remote read failures are tagged with errRemoteRead.
func (s *Syncer) compare(opts Options, f localfs.File, remote io.Reader, localSHA string) (equal bool, local []byte, sha string, err error) {
	if opts.Compare == CompareSHA256 {
		remoteSHA, err := digest(remote)
		if err != nil {
			return false, nil, "", errors.Join(errRemoteRead, err)
		}
		if localSHA == "" {
			if localSHA, err = digestFile(f.Path); err != nil {
				return false, nil, "", err
			}
		}
		return remoteSHA == localSHA, nil, localSHA, nil
	}

	remoteData, err := io.ReadAll(remote)
	if err != nil {
		return false, nil, "", errors.Join(errRemoteRead, err)
	}
	local, err = os.ReadFile(f.Path)
	if err != nil {
		return false, nil, "", err
	}
	return Equal(local, remoteData), local, digestBytes(local), nil
}

// upload writes the local file to its key. When data is nil the file is
// streamed from disk. It returns the number of bytes sent, or that would be
// sent in a dry run.
func (s *Syncer) upload(ctx context.Context, opts Options, f localfs.File, data []byte) (int64, error) {
	if opts.DryRun {
		if data != nil {
			return int64(len(data)), nil
		}
		return f.Size, nil
	}

	if data != nil {
		head := data
		if len(head) > utils.SniffLen() {
			head = head[:utils.SniffLen()]
		}
		size := int64(len(data))
		info, err := s.client.PutObject(ctx, s.bucket, f.Key, bytes.NewReader(data), size, storage.PutOptions{
			PublicRead:  opts.PublicRead,
			ContentType: utils.DetectContentType(f.Key, head),
		})
		if err != nil {
			return 0, wrap(ErrMutation, "upload "+f.Key, err)
		}
		s.remember(ctx, f.Key, info.ETag, digestBytes(data), size)
		return size, nil
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return 0, wrap(ErrLocalAccess, "open "+f.Path, err)
	}
	defer file.Close()
	fi, err := file.Stat()
	if err != nil {
		return 0, wrap(ErrLocalAccess, "stat "+f.Path, err)
	}
	size := fi.Size()

	br := bufio.NewReaderSize(file, utils.SniffLen())
	head, err := br.Peek(utils.SniffLen())
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, wrap(ErrLocalAccess, "read "+f.Path, err)
	}
	contentType := utils.DetectContentType(f.Key, head)

	h := sha256.New()
	info, err := s.client.PutObject(ctx, s.bucket, f.Key, io.TeeReader(br, h), size, storage.PutOptions{
		PublicRead:  opts.PublicRead,
		ContentType: contentType,
	})
	if err != nil {
		return 0, wrap(ErrMutation, "upload "+f.Key, err)
	}
	s.remember(ctx, f.Key, info.ETag, hex.EncodeToString(h.Sum(nil)), size)
	return size, nil
}

// manifestMatches reports whether the manifest proves the remote object is
// the local file: same listing ETag, same local digest, same size.
func (s *Syncer) manifestMatches(ctx context.Context, f localfs.File, obj storage.ObjectInfo, localSHA string) bool {
	entry, err := s.manifest.Lookup(ctx, s.bucket, f.Key)
	if err != nil {
		s.logger.Warn("Manifest lookup failed", zap.String("key", f.Key), zap.Error(err))
		return false
	}
	if entry == nil {
		return false
	}
	return entry.ETag == obj.ETag && entry.SHA256 == localSHA && entry.Size == f.Size && obj.Size == f.Size
}
