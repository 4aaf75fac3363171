package deploy

import (
	"context"
	"time"

	"spaces-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Runner executes a sync run.
type Runner interface {
	Run(ctx context.Context, opts reconcile.Options) (*reconcile.Report, error)
}

// Service plans and runs deploys. Concurrent requests of the same kind share
// one run.
type Service struct {
	runner  Runner
	opts    reconcile.Options
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group
}

// NewService creates a deploy service. timeout bounds each run; 0 disables it.
func NewService(runner Runner, opts reconcile.Options, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		runner:  runner,
		opts:    opts,
		timeout: timeout,
		logger:  logger,
	}
}

// Plan computes what a deploy would change without mutating anything.
func (s *Service) Plan(ctx context.Context) (*reconcile.Report, bool, error) {
	opts := s.opts
	opts.DryRun = true
	return s.do(ctx, "plan", opts)
}

// Deploy mirrors the content tree into the bucket. shared is true when the
// caller joined a run that was already in flight.
func (s *Service) Deploy(ctx context.Context) (*reconcile.Report, bool, error) {
	opts := s.opts
	opts.DryRun = false
	return s.do(ctx, "deploy", opts)
}

func (s *Service) do(ctx context.Context, key string, opts reconcile.Options) (*reconcile.Report, bool, error) {
	// The run outlives any single caller that disconnects.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.group.Do(key, func() (any, error) {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
			defer cancel()
		}
		return s.runner.Run(runCtx, opts)
	})
	report, _ := v.(*reconcile.Report)
	return report, shared, err
}
