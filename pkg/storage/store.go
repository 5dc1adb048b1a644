// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"io/ioutil"

	"github.com/oneconcern/reviz/pkg/storage/status"
)

// MaxObjectSizeInMemory bounds the size of a delta chain read at once
const MaxObjectSizeInMemory = 512 * 1024 * 1024

// Store implementations know how to read and write delta chain files.
//
// Keys are slash separated paths relative to the root of the store, such as
// "src/main.c,v". Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	KeysPrefix(context.Context, string) ([]string, error)
}

// ReadAll reads a whole object from a store
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	object, err := ioutil.ReadAll(io.LimitReader(reader, MaxObjectSizeInMemory+1))
	if err != nil {
		return nil, err
	}
	if len(object) > MaxObjectSizeInMemory {
		return nil, status.ErrObjectTooBig.WrapMessage("%s", key)
	}
	return object, nil
}
