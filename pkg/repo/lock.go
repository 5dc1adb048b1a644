package repo

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	masterLockName  = "#cvs.lock"
	readLockPrefix  = "#cvs.rfl."
	writeLockPrefix = "#cvs.wfl."
	lockNamePrefix  = "#cvs."
)

type unlockFunc func()

// lockBackOff waits between wait and wait+jitter between attempts.
func (r *Repository) lockBackOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	if r.lockJitter == 0 {
		b = backoff.NewConstantBackOff(r.lockWait)
	} else {
		half := r.lockJitter / 2
		e := backoff.NewExponentialBackOff()
		e.InitialInterval = r.lockWait + half
		e.RandomizationFactor = float64(half) / float64(e.InitialInterval)
		e.Multiplier = 1
		e.MaxInterval = e.InitialInterval
		e.MaxElapsedTime = 0
		b = e
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, r.lockRetries-1), ctx)
}

func (r *Repository) tryLock(ctx context.Context, dir string, lock func() error) error {
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++

		return lock()
	},
		r.lockBackOff(ctx),
		func(err error, wait time.Duration) {
			r.l.Warn("failed to lock directory",
				zap.String("dir", dir),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		},
	)
	if err != nil {
		r.l.Error("giving up lock", zap.String("dir", dir), zap.Int("attempts", attempt), zap.Error(err))

		return ErrLockFailure.WrapMessage("%s", dir).Wrap(err)
	}

	return nil
}

func (r *Repository) createLockDir(name string) error {
	if err := r.fs.MkdirAll(path.Dir(name), 0755); err != nil {
		return err
	}

	return r.fs.Mkdir(name, 0755)
}

func (r *Repository) createLockFile(name string) error {
	file, err := r.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	return file.Close()
}

func (r *Repository) removeLock(name string) {
	if err := r.fs.Remove(name); err != nil {
		r.l.Warn("could not remove lock", zap.String("lock", name), zap.Error(err))
	}
}

// checkReaders fails when a reader other than us holds dir.
func (r *Repository) checkReaders(dir string) error {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return err
	}
	own := readLockPrefix + r.owner
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), readLockPrefix) && entry.Name() != own {
			return fmt.Errorf("read lock held: %s", path.Join(dir, entry.Name()))
		}
	}

	return nil
}

// readLock holds dir against writers until the returned func is called.
func (r *Repository) readLock(ctx context.Context, dir string) (unlockFunc, error) {
	master := path.Join(dir, masterLockName)
	rfl := path.Join(dir, readLockPrefix+r.owner)

	err := r.tryLock(ctx, dir, func() error {
		if err := r.createLockDir(master); err != nil {
			return err
		}
		defer r.removeLock(master)

		return r.createLockFile(rfl)
	})
	if err != nil {
		return nil, err
	}
	r.l.Debug("read lock acquired", zap.String("dir", dir))

	return func() {
		r.removeLock(rfl)
	}, nil
}

// writeLock holds dir against readers and other writers until the returned func is called.
func (r *Repository) writeLock(ctx context.Context, dir string) (unlockFunc, error) {
	master := path.Join(dir, masterLockName)
	wfl := path.Join(dir, writeLockPrefix+r.owner)

	err := r.tryLock(ctx, dir, func() error {
		if err := r.createLockDir(master); err != nil {
			return err
		}
		if err := r.checkReaders(dir); err != nil {
			r.removeLock(master)

			return err
		}
		if err := r.createLockFile(wfl); err != nil {
			r.removeLock(master)

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	r.l.Debug("write lock acquired", zap.String("dir", dir))

	return func() {
		r.removeLock(wfl)
		r.removeLock(master)
	}, nil
}
