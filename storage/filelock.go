package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// DirLock holds an advisory lock on a data directory so that overlapping
// invocations cannot both rewrite the persisted files. The single-writer
// assumption for the state, catalog, and feed files depends on it.
type DirLock struct {
	fl *flock.Flock
}

// AcquireDirLock takes an exclusive lock on dir, waiting up to timeout.
// Returns ErrLockTimeout if another process holds the lock.
func AcquireDirLock(dir string, timeout time.Duration) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "lock", Entity: "datadir", ID: dir, Err: err}
	}

	fl := flock.New(filepath.Join(dir, ".courtcast.lock"))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrLockTimeout
		}
		return nil, &StorageError{Op: "lock", Entity: "datadir", ID: dir, Err: err}
	}
	if !locked {
		return nil, ErrLockTimeout
	}

	return &DirLock{fl: fl}, nil
}

// Release unlocks the directory. Safe to call on a nil lock.
func (l *DirLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
