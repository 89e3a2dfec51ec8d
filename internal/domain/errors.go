package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness conflict (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNetwork indicates a transport-level or server-side failure.
	ErrNetwork = errors.New("network error")

	// ErrValidation indicates a precondition failed before any network call,
	// e.g. adding an out-of-stock product.
	ErrValidation = errors.New("validation failed")

	// ErrMutation indicates the server rejected a cart change.
	ErrMutation = errors.New("mutation rejected")

	// ErrAuth indicates a missing or expired credential. It is propagated up
	// to force re-authentication, never retried here.
	ErrAuth = errors.New("authentication required")
)
