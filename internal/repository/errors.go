package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrVersionConflict is returned by CommitAggregate when the stored
	// aggregate changed since the snapshot the caller read. The caller is
	// expected to re-read and recompute.
	ErrVersionConflict = errors.New("repository: version conflict")
)
