package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dgraph-io/badger/v3"
	"github.com/oneconcern/reviz/pkg/errors"
)

type (
	// kvBadger provides a KV store implementation based on dgraph-io/badger/v3
	kvBadger struct {
		*badger.DB
	}

	kvBadgerIterator struct {
		isFirst  bool
		txn      *badger.Txn
		iterator *badger.Iterator
	}
)

func (kv *kvBadger) Drop() error {
	return kv.DB.DropAll()
}

func (kv *kvBadger) Size() uint64 {
	lsmSize, logSize := kv.DB.Size()

	return uint64(lsmSize + logSize)
}

func (kv *kvBadger) AllKeys() kvIterator {
	txn := kv.DB.NewTransaction(false)
	iterator := txn.NewIterator(badger.IteratorOptions{
		PrefetchSize:   100,
		PrefetchValues: false,
	})

	return &kvBadgerIterator{
		isFirst:  true,
		txn:      txn,
		iterator: iterator,
	}
}

func (kv *kvBadger) Get(key []byte) ([]byte, error) {
	var value []byte
	err := kv.DB.View(func(txn *badger.Txn) error {
		item, e := txn.Get(key)
		if e != nil {
			return e
		}
		value, e = item.ValueCopy(nil)

		return e
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errNotFound
	}

	return value, err
}

func (kv *kvBadger) Exists(key []byte) (bool, error) {
	err := kv.DB.View(func(txn *badger.Txn) error {
		_, e := txn.Get(key)

		return e
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}

		// some technical error occurred: interrupt
		return false, err
	}

	return true, nil
}

// retry runs a transaction again while it conflicts with concurrent writers
func retry(fn func() error) error {
	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !errors.Is(err, badger.ErrConflict) {
			return backoff.Permanent(err)
		}

		return err
	},
		backoff.WithMaxRetries(backoff.NewConstantBackOff(10*time.Millisecond), 100),
	)
}

func (kv *kvBadger) Set(key, value []byte) error {
	return retry(func() error {
		return kv.DB.Update(func(txn *badger.Txn) error {
			return txn.Set(key, value)
		})
	})
}

func (kv *kvBadger) SetIfNotExists(key, value []byte) error {
	return retry(func() error {
		return kv.DB.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			if err == nil {
				return nil
			}

			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			return txn.Set(key, value)
		})
	})
}

func (i *kvBadgerIterator) Next() bool {
	if i.isFirst {
		i.iterator.Rewind()
		i.isFirst = false

		return i.iterator.Valid()
	}

	i.iterator.Next()

	return i.iterator.Valid()
}

func (i *kvBadgerIterator) Item() ([]byte, []byte, error) {
	key := i.iterator.Item().KeyCopy(nil)
	val, err := i.iterator.Item().ValueCopy(nil)

	return key, val, err
}

func (i *kvBadgerIterator) Close() error {
	i.iterator.Close()
	i.txn.Discard()

	return nil
}

func makeKVBadger(pth string, inMemory bool) (*kvBadger, error) {
	opts := badger.DefaultOptions(pth)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if err := os.MkdirAll(pth, 0700); err != nil {
		return nil, fmt.Errorf("makeKV: mkdir: %w", err)
	}

	db, err := badger.Open(
		opts.
			WithLoggingLevel(badger.WARNING).
			WithNumVersionsToKeep(1).
			WithMemTableSize(16 << 20). // 16MB: texts are small, the default 64MB is oversized
			WithValueThreshold(1 << 10),
	)
	if err != nil {
		return nil, fmt.Errorf("open KV: %w", err)
	}

	return &kvBadger{DB: db}, nil
}
