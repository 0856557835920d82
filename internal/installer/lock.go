package installer

import (
	"fmt"
	"os"
	"time"

	"github.com/winappkit/winapp/internal/messages"
)

var lockSleep = time.Sleep

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// withFileLock opens or creates the lock file at path, acquires an exclusive
// lock on it, runs fn, and releases the lock. Acquisition polls until
// lockWaitTimeout so concurrent installs of the same package serialize
// instead of failing.
func withFileLock(path string, fn func() error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf(messages.InstallerOpenLockFmt, path, err)
	}
	defer func() { _ = file.Close() }()

	if err := pollLock(file, path); err != nil {
		return err
	}
	defer func() { _ = unlockFile(file) }()
	return fn()
}

func pollLock(file *os.File, path string) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := tryLockFile(file)
		switch {
		case err == nil:
			return nil
		case !isLockBusy(err):
			return fmt.Errorf(messages.InstallerLockFmt, path, err)
		case time.Now().After(deadline):
			return fmt.Errorf(messages.InstallerLockTimeoutFmt, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}
