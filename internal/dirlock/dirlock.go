// Package dirlock serialises txtcopy runs that target the same destination
// directory, so collision checks of one run cannot race with another.
package dirlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
)

const retryDelay = 100 * time.Millisecond

// Lock is an advisory lock keyed by a destination directory. The lock file
// lives in the system temp directory so the destination itself only ever
// receives copied files.
type Lock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock for dir. The lock is not acquired yet.
func New(dir string) (*Lock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	return newInDir(os.TempDir(), abs), nil
}

func newInDir(lockDir, abs string) *Lock {
	key := strconv.FormatUint(xxhash.Sum64String(filepath.Clean(abs)), 16)
	path := filepath.Join(lockDir, "txtcopy-"+key+".lock")
	return &Lock{flock: flock.New(path), path: path}
}

// Acquire blocks until the lock is held or ctx is done.
func (l *Lock) Acquire(ctx context.Context) error {
	ok, err := l.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("failed to acquire lock on %s", l.path)
	}
	return nil
}

// TryAcquire attempts to take the lock without blocking.
func (l *Lock) TryAcquire() (bool, error) {
	ok, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	return ok, nil
}

// Release releases the lock.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }
