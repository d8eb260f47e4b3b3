package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// dirLock is a cross-process lock guarding one output directory. The lock
// file lives beside the directory, not inside it, so clearing the
// directory never removes a held lock.
type dirLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// newDirLock creates the lock for dir at <parent>/.<name>.lock.
func newDirLock(dir string) *dirLock {
	clean := filepath.Clean(dir)
	path := filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".lock")
	return &dirLock{path: path, flock: flock.New(path)}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false if another process holds it.
func (l *dirLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call on an unlocked dirLock.
func (l *dirLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *dirLock) Path() string {
	return l.path
}
