package storage

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"planner/internal/common"
)

const (
	lockAttempts = 5
	lockDelay    = 100 * time.Millisecond
)

var errLockHeld = errors.New("lock held by another process")

// acquireLock takes an advisory lock on path, polling a bounded number of
// times. When every attempt fails the operation proceeds without the lock;
// the degradation is reported through a warning rather than an error, so a
// competing process can never block a save.
func acquireLock(path string, exclusive bool) (release func()) {
	fl := flock.New(path)

	try := fl.TryRLock
	if exclusive {
		try = fl.TryLock
	}

	err := common.RetryFixed(lockAttempts, lockDelay, func() error {
		ok, tryErr := try()
		if tryErr != nil {
			return tryErr
		}
		if !ok {
			return errLockHeld
		}
		return nil
	})
	if err != nil {
		slog.Warn("proceeding without file lock",
			"path", path,
			"exclusive", exclusive,
			"error", err)
		return func() {}
	}

	return func() {
		if unlockErr := fl.Unlock(); unlockErr != nil {
			slog.Warn("failed to release file lock", "path", path, "error", unlockErr)
		}
	}
}
