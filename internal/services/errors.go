package services

import "errors"

// Sentinel errors shared across services. Handlers translate these to
// HTTP status codes with errors.Is; services wrap them with context
// via fmt.Errorf and %w.
var (
	// ErrValidation marks malformed input, rejected before any store
	// access.
	ErrValidation = errors.New("validation failure")

	// ErrNotFound marks a referenced activity, user, or request that
	// does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("not found")

	// ErrSelfRequest marks a friend request sent to oneself.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrDuplicatePair marks a friend request for a pair that already
	// has a relationship record, in either direction and any status.
	ErrDuplicatePair = errors.New("relationship already exists for this pair")

	// ErrAggregation marks a failed write to a derived counter. The
	// primary mutation stays authoritative; callers log this instead of
	// rolling back, and the backfill can repair the drift.
	ErrAggregation = errors.New("failed to apply stats delta")

	// ErrMissingScopeUser marks a friends-scoped leaderboard query with
	// no querying user.
	ErrMissingScopeUser = errors.New("friends scope requires a user")
)
