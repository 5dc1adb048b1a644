// Copyright © 2018 One Concern

package cache

import (
	"encoding/hex"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs"
	"github.com/oneconcern/reviz/pkg/revision"
	"go.uber.org/zap"
	"lukechampine.com/blake3"
)

var (
	// ErrUnknownBackend is returned when opening a cache with an unsupported KV backend
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrInMemory is returned when an in-memory cache is requested from a backend that does not support it
	ErrInMemory = errors.New("in-memory cache not supported by backend")

	// ErrCorruptEntry is returned when a cached entry cannot be decoded
	ErrCorruptEntry = errors.New("corrupt cache entry")

	errNotFound = errors.New("key not found")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is a checked out revision
type Entry struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Stats describes the content of the cache
type Stats struct {
	Entries int    `json:"entries" yaml:"entries"`
	Size    uint64 `json:"size" yaml:"size"`
	Backend string `json:"backend" yaml:"backend"`
}

// Cache holds checked out texts
type Cache struct {
	kv      kvStore
	backend string
	l       *zap.Logger
}

// Open a cache at path
func Open(path string, opts ...Option) (*Cache, error) {
	options := defaultOptions(path)
	for _, apply := range opts {
		apply(options)
	}

	switch options.backend {
	case BackendBadger:
	case BackendPebble:
		if options.inMemory {
			return nil, ErrInMemory.WrapMessage("%s", options.backend)
		}
	default:
		return nil, ErrUnknownBackend.WrapMessage("%q", options.backend)
	}

	kv, err := openKV(options)
	if err != nil {
		return nil, err
	}

	options.l.Debug("checkout cache opened",
		zap.String("path", options.path),
		zap.String("backend", options.backend),
		zap.Bool("in-memory", options.inMemory),
	)

	return &Cache{
		kv:      kv,
		backend: options.backend,
		l:       options.l,
	}, nil
}

// Key of a revision of a chain. Any change to the chain bytes yields new keys.
func Key(chain []byte, rev revision.Revision) []byte {
	sum := blake3.Sum256(chain)

	return []byte(hex.EncodeToString(sum[:]) + "/" + rev.String())
}

// Get a cached revision. The boolean is false when the entry is absent.
func (c *Cache) Get(chain []byte, rev revision.Revision) (Entry, bool, error) {
	var entry Entry

	val, err := c.kv.Get(Key(chain, rev))
	if errors.Is(err, errNotFound) {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, err
	}

	if err := json.Unmarshal(val, &entry); err != nil {
		return entry, false, ErrCorruptEntry.Wrap(err)
	}

	return entry, true, nil
}

// Put a revision in the cache. An existing entry is kept.
func (c *Cache) Put(chain []byte, rev revision.Revision, entry Entry) error {
	val, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return c.kv.SetIfNotExists(Key(chain, rev), val)
}

// Checkout returns the text and date of a revision of f, parsed from chain.
// A cache miss replays the deltas and stores the result.
func (c *Cache) Checkout(chain []byte, f *rcs.File, rev revision.Revision) (string, time.Time, error) {
	entry, found, err := c.Get(chain, rev)
	if err != nil {
		c.l.Warn("checkout cache lookup failed", zap.Stringer("rev", rev), zap.Error(err))
	}
	if found {
		c.l.Debug("checkout cache hit", zap.Stringer("rev", rev))

		return entry.Text, entry.Date, nil
	}

	txt, date, err := f.Checkout(rev)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := c.Put(chain, rev, Entry{Text: txt, Date: date}); err != nil {
		c.l.Warn("checkout cache update failed", zap.Stringer("rev", rev), zap.Error(err))
	}

	return txt, date, nil
}

// Stats counts the entries of the cache
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{
		Size:    c.kv.Size(),
		Backend: c.backend,
	}

	iterator := c.kv.AllKeys()
	for iterator.Next() {
		if _, _, err := iterator.Item(); err != nil {
			_ = iterator.Close()

			return stats, fmt.Errorf("iterating cache: %w", err)
		}
		stats.Entries++
	}

	return stats, iterator.Close()
}

// Drop all entries
func (c *Cache) Drop() error {
	c.l.Info("dropping checkout cache", zap.String("backend", c.backend))

	return c.kv.Drop()
}

// Close the cache
func (c *Cache) Close() error {
	return c.kv.Close()
}
