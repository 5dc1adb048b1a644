package cache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/pebble"
)

type (
	// kvPebble provides a KV store implementation based on cockroachdb/pebble
	kvPebble struct {
		*pebble.DB
	}

	kvPebbleIterator struct {
		isFirst  bool
		iterator *pebble.Iterator
		err      error
	}

	// ignoreNewMerger keeps the first value set for a key
	ignoreNewMerger struct {
		buf []byte
	}
)

func (kv *kvPebble) bounds() ([]byte, []byte, error) {
	iterator, err := kv.DB.NewIter(nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = iterator.Close()
	}()

	if !iterator.First() {
		return nil, nil, iterator.Error()
	}
	start := append([]byte(nil), iterator.Key()...)
	_ = iterator.Last()
	end := append([]byte(nil), iterator.Key()...)

	return start, end, iterator.Error()
}

func (kv *kvPebble) Drop() error {
	start, end, err := kv.bounds()
	if err != nil || start == nil {
		return err
	}

	if err := kv.DB.DeleteRange(start, end, pebble.NoSync); err != nil {
		return err
	}

	// as DeleteRange excludes the upper bound
	if err := kv.DB.Delete(end, pebble.NoSync); err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return err
	}

	return nil
}

func (kv *kvPebble) Size() uint64 {
	m := kv.DB.Metrics()

	return m.DiskSpaceUsage()
}

func (kv *kvPebble) AllKeys() kvIterator {
	iterator, err := kv.DB.NewIter(nil)

	return &kvPebbleIterator{
		isFirst:  true,
		iterator: iterator,
		err:      err,
	}
}

func (kv *kvPebble) Get(key []byte) ([]byte, error) {
	val, closer, err := kv.DB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errNotFound
		}

		return nil, err
	}
	defer func() {
		_ = closer.Close()
	}()

	dest := make([]byte, len(val))
	copy(dest, val)

	return dest, nil
}

func (kv *kvPebble) Exists(key []byte) (bool, error) {
	_, closer, err := kv.DB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	_ = closer.Close()

	return true, nil
}

func (kv *kvPebble) Set(key, value []byte) error {
	return kv.DB.Set(key, value, pebble.Sync)
}

func (kv *kvPebble) SetIfNotExists(key, value []byte) error {
	found, err := kv.Exists(key)
	if err != nil {
		return err
	}

	if found {
		return nil
	}

	return kv.Merge(key, value, pebble.Sync) // skip new value
}

func (i *kvPebbleIterator) Next() bool {
	if i.err != nil {
		return false
	}
	if i.isFirst {
		i.isFirst = false

		return i.iterator.First()
	}

	return i.iterator.Next()
}

func (i *kvPebbleIterator) Item() ([]byte, []byte, error) {
	k, v := i.iterator.Key(), i.iterator.Value()

	key := make([]byte, len(k))
	copy(key, k)
	value := make([]byte, len(v))
	copy(value, v)

	return key, value, nil
}

func (i *kvPebbleIterator) Close() error {
	if i.err != nil {
		return i.err
	}

	return i.iterator.Close()
}

func makeKVPebble(pth string) (*kvPebble, error) {
	err := os.MkdirAll(pth, 0700)
	if err != nil {
		return nil, fmt.Errorf("makeKV: mkdir: %w", err)
	}

	options := new(pebble.Options)
	options.EnsureDefaults()
	options.Merger = &pebble.Merger{
		Name: "ignore new",
		Merge: func(_, value []byte) (pebble.ValueMerger, error) {
			return &ignoreNewMerger{
				buf: value,
			}, nil
		},
	}

	db, err := pebble.Open(pth, options)
	if err != nil {
		return nil, fmt.Errorf("open KV: %w", err)
	}

	return &kvPebble{DB: db}, nil
}

func (m *ignoreNewMerger) MergeNewer(val []byte) error {
	if m.buf == nil {
		m.buf = val
	}

	return nil
}

func (m *ignoreNewMerger) MergeOlder(val []byte) error {
	if val != nil {
		m.buf = val
	}

	return nil
}

func (m *ignoreNewMerger) Finish(bool) ([]byte, io.Closer, error) {
	return m.buf, nil, nil
}
