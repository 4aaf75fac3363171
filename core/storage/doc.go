// Package storage provides an abstraction layer for object storage services.
//
// It defines a small Client interface covering exactly what the sync engine
// needs (list, get, put, remove) and ships two implementations:
//
//   - minio: the MinIO Go client (default), works against Spaces, S3 and MinIO.
//   - s3: the AWS SDK v2 client with path-style addressing.
//
// # Errors
//
// Backends translate their "no such key" responses into ErrNotFound so callers
// can tell absence apart from every other failure with IsNotFound.
//
// # Directory markers
//
// Keys ending in "/" are folder placeholders created by some consoles.
// IsDirMarker identifies them; they never represent files.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	objects, err := client.ListObjects(ctx, cfg.Storage.Bucket)
package storage
