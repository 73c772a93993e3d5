package workflow

import "errors"

var (
	// ErrUnreachable indicates the backend could not be contacted at all.
	// Callers degrade gracefully: cached data stays visible and only the
	// reachability flag flips.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrNotFound indicates the referenced workflow no longer exists on
	// the backend, e.g. it was deleted between a list fetch and a replay.
	ErrNotFound = errors.New("workflow not found")

	// ErrBusy rejects an operation while another one is still in flight.
	// The session allows a single backend-facing operation at a time.
	ErrBusy = errors.New("another operation is in progress")

	// ErrEmptyInput rejects blank instruction text before any backend call.
	ErrEmptyInput = errors.New("instruction text is empty")
)
