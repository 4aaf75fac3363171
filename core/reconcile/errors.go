package reconcile

import "errors"

var (
	// ErrRemoteListing means the bucket could not be enumerated. Nothing was mutated.
	ErrRemoteListing = errors.New("remote listing failed")
	// ErrLocalAccess means a local stat, walk or read failed for a reason other than absence.
	ErrLocalAccess = errors.New("local access failed")
	// ErrRemoteFetch means an object could not be fetched for a reason other than absence.
	ErrRemoteFetch = errors.New("remote fetch failed")
	// ErrMutation means a delete or upload call failed. Earlier changes stay in place.
	ErrMutation = errors.New("remote mutation failed")
)
