package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// ImportLock is an exclusive advisory lock held for the duration of an import.
type ImportLock struct {
	lock *flock.Flock
}

// AcquireImportLock takes the lock at path, waiting up to timeout for another
// holder to release it. A zero timeout fails immediately. When the lock stays
// held the error wraps ErrImportInProgress.
func AcquireImportLock(ctx context.Context, path string, timeout time.Duration) (*ImportLock, error) {
	ctx = ensureContext(ctx)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	fl := flock.New(path)
	var (
		ok  bool
		err error
	)
	if timeout <= 0 {
		ok, err = fl.TryLock()
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		ok, err = fl.TryLockContext(waitCtx, lockRetryDelay)
		if err != nil && waitCtx.Err() != nil && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return nil, &LockError{Path: path}
	}
	return &ImportLock{lock: fl}, nil
}

// Release unlocks the import lock. It is safe to call on a nil lock.
func (l *ImportLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release import lock: %w", err)
	}
	return nil
}
