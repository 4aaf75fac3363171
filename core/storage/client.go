package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// ObjectInfo describes a single remote object as returned by a listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}

// PutOptions controls how an object is written.
type PutOptions struct {
	// PublicRead grants anonymous read access (canned ACL "public-read").
	PublicRead bool
	// ContentType is sent as the object's Content-Type header when set.
	ContentType string
}

// UploadInfo is the result of a successful PutObject.
type UploadInfo struct {
	Key  string
	ETag string
	Size int64
}

// Client defines the interface for storage operations.
type Client interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// ListObjects returns every object in the bucket, recursively.
	// A failed listing returns an error and no partial result.
	ListObjects(ctx context.Context, bucketName string) ([]ObjectInfo, error)
	// GetObject opens an object for reading.
	// A missing key yields an error matched by IsNotFound.
	GetObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
	// PutObject uploads an object, replacing any existing object at that key.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error)
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string) error
}

// DirMarkerSuffix is the trailing separator that marks a "directory" object.
const DirMarkerSuffix = "/"

// IsDirMarker reports whether key denotes a directory marker rather than a file.
func IsDirMarker(key string) bool {
	return strings.HasSuffix(key, DirMarkerSuffix)
}

// NewClient creates the storage client selected by cfg.Provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "", ProviderMinio:
		return NewMinioClient(cfg)
	case ProviderS3:
		return NewS3Client(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
