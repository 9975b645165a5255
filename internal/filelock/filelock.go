// Package filelock serializes writers of a file across processes and replaces
// file contents atomically, so readers see either the old or the new document.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to a target path to name its lock file
const LockSuffix = ".lock"

// FileLock wraps a flock file lock for coordinating writers of one file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock at path.
// The lock file is created on the first Lock or TryLock.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// ForTarget returns the lock guarding target, stored next to it
func ForTarget(target string) *FileLock {
	return NewFileLock(target + LockSuffix)
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking.
// Returns false if another process holds it.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite replaces the contents of path with data.
// The data goes to a temporary file in the same directory, is synced, and is
// renamed over path. On any failure the temporary file is removed and the
// previous contents of path are untouched. The parent directory must exist.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Rename is atomic within one filesystem, hence the temp file lives in dir
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// LockAndWrite holds the target's lock for the duration of an AtomicWrite.
// Example: writing "feature_list.json" locks "feature_list.json.lock".
func LockAndWrite(path string, data []byte, perm os.FileMode) error {
	lock := ForTarget(path)

	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return AtomicWrite(path, data, perm)
}
