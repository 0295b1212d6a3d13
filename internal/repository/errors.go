package repository

import "errors"

// Shared repository errors. Implementations map their driver errors onto
// these so services never import gorm or redis directly.
var (
	// ErrNotFound means the requested record or key does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry means a write violated a uniqueness constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// Per-resource aliases, kept so call sites read naturally.
var (
	ErrUserNotFound     = ErrNotFound
	ErrBoardNotFound    = ErrNotFound
	ErrSnapshotNotFound = ErrNotFound
)
