// Package storage persists the pipeline's durable state: the seen/processed
// state map and the append-only episode catalog. Both are plain JSON files
// rewritten wholesale with atomic replace semantics, safe to diff and version.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested entry was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidTransition indicates an illegal state transition, such as
	// marking an unknown or already-processed entry as processed.
	ErrInvalidTransition = errors.New("storage: invalid state transition")
	// ErrDuplicateEpisode indicates an episode with the same video ID
	// already exists in the catalog.
	ErrDuplicateEpisode = errors.New("storage: duplicate episode")
	// ErrStorageCorrupt indicates a persisted file could not be parsed.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrStateMissing indicates the state file does not exist and the store
	// was not opened with AllowMissing.
	ErrStateMissing = errors.New("storage: state file missing")
	// ErrLockTimeout indicates a timeout acquiring the data directory lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "append", "mark").
	Op string
	// Entity is the entity type ("state", "catalog", "feed").
	Entity string
	// ID is the entry ID if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error { return e.Err }
