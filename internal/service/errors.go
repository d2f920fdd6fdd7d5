package service

import "errors"

var (
	// ErrInvalidInput marks malformed request parameters, rejected before
	// any storage I/O happens.
	ErrInvalidInput = errors.New("service: invalid input")

	// ErrUpstreamUnavailable marks a storage failure. Recommendation
	// requests fail whole rather than return an under-covered result.
	ErrUpstreamUnavailable = errors.New("service: upstream unavailable")

	// ErrConflictExhausted is returned when the aggregate transaction could
	// not commit within its retry budget. The surrounding profile save must
	// be treated as failed; the caller may retry the whole operation.
	ErrConflictExhausted = errors.New("service: aggregate conflict retries exhausted")
)
