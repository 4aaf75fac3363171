package cmd

import (
	"spaces-sync/core/reconcile"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// printReport logs the run summary and a sample of the actions.
func printReport(l *zap.Logger, report *reconcile.Report) {
	s := report.Summary

	l.Info("Sync report",
		zap.String("run_id", report.RunID),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("remote_objects", s.RemoteObjects),
		zap.Int("local_files", s.LocalFiles),
		zap.Int("deleted", s.Deleted),
		zap.Int("uploaded", s.Uploaded),
		zap.Int("replaced", s.Replaced),
		zap.Int("skipped", s.Skipped),
		zap.String("bytes_uploaded", humanize.Bytes(uint64(s.BytesUploaded))),
		zap.Duration("duration", report.Duration),
	)

	var changes []reconcile.Action
	for _, a := range report.Actions {
		if a.Type != reconcile.ActionSkip {
			changes = append(changes, a)
		}
	}
	if len(changes) == 0 {
		l.Info("Bucket already matches the content directory")
		return
	}

	maxShow := min(5, len(changes))
	for _, action := range changes[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", string(action.Reason)),
		)
	}
	if len(changes) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(changes)-maxShow))
	}
}
