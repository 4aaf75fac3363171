// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the deploy webhook.
//
// # Context Awareness
//
// WithRunID tags every line of a sync run with its identifier so interleaved
// output from concurrent workers can be grouped. WithRayID does the same for
// HTTP requests, reading the RayID set by the rayid middleware.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Sync started")
package logger
