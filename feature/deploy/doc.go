// Package deploy exposes the sync engine over HTTP.
//
//   - GET /deploy/plan: dry-run report of what a deploy would change.
//   - POST /deploy: run a sync and return its report.
//
// Requests arriving while a run of the same kind is in progress wait for it
// and receive its report; the X-Deploy-Shared response header is true for
// them. A run keeps going if the caller disconnects.
package deploy
