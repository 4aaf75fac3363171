// Package integrity reports drift between the bucket and the local content tree.
//
// The check is listing-only: it compares keys and sizes without downloading
// any object, so it is cheap enough to poll. A full byte comparison is what
// plan and sync do.
//
// # HTTP Endpoints
//
//   - GET /integrity : 200 with the report when in sync, 409 when drift is found.
package integrity
