// Package manifest persists what the last sync verified about each object.
//
// An Entry pairs the object's ETag in the bucket with the SHA-256 of the local
// bytes it was last known to equal. On the next run, when the listing still
// reports that ETag and the local file still hashes to that digest, the sync
// engine can skip downloading the object for comparison.
//
// The manifest is a cache, never a source of truth: a stale or missing entry
// only costs a download.
package manifest
