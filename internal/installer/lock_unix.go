//go:build !windows

package installer

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// tryLockFile acquires an exclusive advisory lock without blocking.
func tryLockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// unlockFile releases the advisory lock on the file.
func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}

// isLockBusy reports whether err means another process holds the lock.
func isLockBusy(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}
