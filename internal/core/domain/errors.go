package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrPinnedID indicates an attempt to store a hymn with a negative
	// identifier. Negative IDs belong to the presentation layer.
	ErrPinnedID = errors.New("pinned identifiers cannot be stored")

	// ErrRemoteUnavailable indicates the remote source could not be
	// reached.
	ErrRemoteUnavailable = errors.New("remote source unavailable")
)
