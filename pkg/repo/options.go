package repo

import (
	"runtime"
	"time"

	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Default lock acquisition settings: 10 tries, waiting 45s plus up to 30s in between.
const (
	DefaultLockRetries = 10
	DefaultLockWait    = 45 * time.Second
	DefaultLockJitter  = 30 * time.Second
)

// Option configures a Repository
type Option func(*Repository)

// WithFs sets the file system holding the repository. The default is the current directory.
func WithFs(fs afero.Fs) Option {
	return func(r *Repository) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithRoot roots the repository at some directory of the OS file system.
func WithRoot(root string) Option {
	return func(r *Repository) {
		if root != "" {
			r.fs = afero.NewBasePathFs(afero.NewOsFs(), root)
		}
	}
}

// WithLogger sets a logger. The default is a no-op logger.
func WithLogger(zlg *zap.Logger) Option {
	return func(r *Repository) {
		if zlg != nil {
			r.l = zlg
		}
	}
}

// WithCache sets a cache for checked out revisions.
func WithCache(c *cache.Cache) Option {
	return func(r *Repository) {
		r.cache = c
	}
}

// WithLockRetries sets the number of attempts at acquiring a lock.
func WithLockRetries(retries uint64) Option {
	return func(r *Repository) {
		if retries > 0 {
			r.lockRetries = retries
		}
	}
}

// WithLockWait sets the wait between lock attempts: at least wait, plus a random
// duration up to jitter.
func WithLockWait(wait, jitter time.Duration) Option {
	return func(r *Repository) {
		if wait >= 0 && jitter >= 0 {
			r.lockWait = wait
			r.lockJitter = jitter
		}
	}
}

// WithOwner sets the lock owner token. It defaults to a fresh ksuid.
func WithOwner(owner string) Option {
	return func(r *Repository) {
		if owner != "" {
			r.owner = owner
		}
	}
}

// WithAlgorithm sets the diff algorithm used by commits.
func WithAlgorithm(alg diff.Algorithm) Option {
	return func(r *Repository) {
		if alg != nil {
			r.alg = alg
		}
	}
}

// WithParallelism bounds the number of chains parsed at once by ParseAll.
func WithParallelism(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

// WithInstrumentation wraps the chain store with tracing spans and logs.
func WithInstrumentation(enabled bool) Option {
	return func(r *Repository) {
		r.instrumented = enabled
	}
}

func defaultRepository() *Repository {
	return &Repository{
		fs:          afero.NewBasePathFs(afero.NewOsFs(), "."),
		l:           zap.NewNop(),
		lockRetries: DefaultLockRetries,
		lockWait:    DefaultLockWait,
		lockJitter:  DefaultLockJitter,
		alg:         diff.Default,
		parallelism: runtime.NumCPU(),
	}
}
