package storage

import "errors"

// ErrNotFound is wrapped by backends when an object key does not exist.
var ErrNotFound = errors.New("object not found")

// IsNotFound reports whether err means the requested object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
