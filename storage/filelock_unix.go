//go:build !windows

package storage

import (
	"context"
	"os"
	"syscall"
	"time"
)

// FileLock provides advisory file locking for cross-process synchronization.
// This uses the flock(2) system call available on Unix-like systems.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a file lock. The lock is not acquired until Lock() is called.
// The lock file will be created at path + ".lock".
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock acquires an exclusive lock, polling until timeout elapses or ctx is
// done. Returns ErrLockTimeout if the lock cannot be acquired in time.
func (l *FileLock) Lock(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
		if err != nil {
			return &StorageError{Op: "lock", Entity: "file", ID: l.path, Err: err}
		}
		if err := flockUntil(ctx, f, deadline); err != nil {
			f.Close()
			return err
		}

		// Unlock unlinks the file before releasing it, so a lock won on a
		// file that is no longer at l.path guards nothing.
		if isCurrent(f, l.path) {
			l.file = f
			return nil
		}
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		if !time.Now().Before(deadline) {
			return ErrLockTimeout
		}
	}
}

// Unlock removes the lock file and then releases the lock.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	os.Remove(l.path)
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	l.file = nil
	return nil
}

func flockUntil(ctx context.Context, f *os.File, deadline time.Time) error {
	for {
		if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// isCurrent reports whether f is still the file linked at path.
func isCurrent(f *os.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	linked, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, linked)
}
