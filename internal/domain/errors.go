package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// ErrCorrupt marks a stored value that no longer parses. Callers treat
	// it as absence of data, never as a hard failure.
	ErrCorrupt = errors.New("stored value is not valid JSON")

	// ErrNoAuthToken means sync was attempted before login.
	ErrNoAuthToken = errors.New("no auth token — sync skipped")

	// ErrSyncRejected means the community endpoint refused the update.
	ErrSyncRejected = errors.New("sync endpoint rejected the update")
)
