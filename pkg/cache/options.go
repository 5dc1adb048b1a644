package cache

import "go.uber.org/zap"

// Supported KV backends
const (
	BackendBadger = "badger"
	BackendPebble = "pebble"
)

// Option configures the cache
type Option func(*cacheOptions)

type cacheOptions struct {
	path     string
	backend  string
	inMemory bool
	l        *zap.Logger
}

func defaultOptions(path string) *cacheOptions {
	return &cacheOptions{
		path:    path,
		backend: BackendBadger,
		l:       zap.NewNop(),
	}
}

// WithLogger sets a logger for the cache. The default is a no-op logger.
func WithLogger(zlg *zap.Logger) Option {
	return func(o *cacheOptions) {
		if zlg != nil {
			o.l = zlg
		}
	}
}

// WithBackend selects the KV store, "badger" (the default) or "pebble".
func WithBackend(backend string) Option {
	return func(o *cacheOptions) {
		if backend != "" {
			o.backend = backend
		}
	}
}

// WithInMemory keeps the cache in memory. This is only supported by badger.
func WithInMemory(enabled bool) Option {
	return func(o *cacheOptions) {
		o.inMemory = enabled
	}
}
