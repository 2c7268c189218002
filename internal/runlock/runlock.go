// Package runlock keeps two artnorm processes from working on the same
// library root at once.
//
// The lock is advisory: it only coordinates artnorm processes and does not
// stop other programs from touching the files.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for the root.
var ErrLocked = errors.New("another artnorm run is active for this library")

// Lock is a held run lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file path for root: a file in the OS temp
// directory named after a hash of the absolute root.
func PathFor(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "artnorm-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// Acquire takes the lock for root without blocking.
func Acquire(root string) (*Lock, error) {
	path, err := PathFor(root)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file.
func (l *Lock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}
