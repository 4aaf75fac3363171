package integrity

import (
	"context"

	"spaces-sync/core/localfs"
	"spaces-sync/core/storage"
	"spaces-sync/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	tree   *localfs.Tree
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, tree *localfs.Tree, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		tree:   tree,
		logger: logger,
	}
}

// CheckDrift compares the bucket listing with the local tree.
func (s *Service) CheckDrift(ctx context.Context) (*checks.DriftReport, error) {
	return checks.CheckDrift(ctx, s.client, s.bucket, s.tree)
}
