// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/storage"
	"github.com/oneconcern/reviz/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	bs := setupStore(t)

	has, err := bs.Has(context.Background(), "main.c,v")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "src/Attic/old.c,v")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "src")
	require.NoError(t, err)
	require.False(t, has)

	has, err = bs.Has(context.Background(), "missing,v")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGet(t *testing.T) {
	bs := setupStore(t)

	b, err := storage.ReadAll(context.Background(), bs, "main.c,v")
	require.NoError(t, err)
	assert.Equal(t, "this is the text", string(b))

	_, err = bs.Get(context.Background(), "missing,v")
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestKeys(t *testing.T) {
	bs := setupStore(t)

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"main.c,v", "src/Attic/old.c,v", "src/util.c,v"}, keys)
}

func TestKeysPrefix(t *testing.T) {
	fs := afero.NewMemMapFs()
	for i := 0; i < 10; i++ {
		fakeFile(t, fs, "a/b/c/e"+strconv.Itoa(i))
		fakeFile(t, fs, "a/d/f"+strconv.Itoa(i))
	}
	store := New(fs)

	for _, tc := range []struct {
		prefix   string
		expected int
	}{
		{prefix: "a/", expected: 20},
		{prefix: "a/d/", expected: 10},
		{prefix: "a/d/f1", expected: 1},
		{prefix: "a/b/c/e", expected: 10},
		{prefix: "", expected: 20},
		{prefix: "z/", expected: 0},
		{prefix: "a/x", expected: 0},
	} {
		keys, err := store.KeysPrefix(context.Background(), tc.prefix)
		require.NoError(t, err)
		assert.Len(t, keys, tc.expected, tc.prefix)
	}
}

func TestDelete(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Delete(context.Background(), "main.c,v"))
	require.NoError(t, bs.Delete(context.Background(), "main.c,v"))
	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 2)
}

func TestPut(t *testing.T) {
	bs := setupStore(t)

	require.NoError(t, bs.Put(context.Background(), "lib/new.c,v", bytes.NewBufferString("here we go once again")))
	require.NoError(t, bs.Put(context.Background(), "main.c,v", bytes.NewBufferString("short")))

	b, err := storage.ReadAll(context.Background(), bs, "lib/new.c,v")
	require.NoError(t, err)
	assert.Equal(t, "here we go once again", string(b))
	b, err = storage.ReadAll(context.Background(), bs, "main.c,v")
	require.NoError(t, err)
	assert.Equal(t, "short", string(b))

	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 4)
}

func TestAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	fakeFile(t, fs, "main.c,v")
	bs, err := NewAtomic(fs)
	require.NoError(t, err)
	assert.Equal(t, "localfs-atomic", bs.String())

	require.NoError(t, bs.Put(context.Background(), "main.c,v", bytes.NewBufferString("replaced")))
	require.NoError(t, bs.Put(context.Background(), "src/util.c,v", bytes.NewBufferString("created")))

	b, err := storage.ReadAll(context.Background(), bs, "main.c,v")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(b))

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"main.c,v", "src/util.c,v"}, keys)

	for _, key := range []string{".put-stage/x", "../x", "a/../../x"} {
		err = bs.Put(context.Background(), key, bytes.NewBufferString("x"))
		assert.True(t, errors.Is(err, status.ErrInvalidKey), key)
	}

	rdr, err := bs.Get(context.Background(), "src/util.c,v")
	require.NoError(t, err)
	content, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "created", string(content))
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())
	assert.Contains(t, New(afero.NewBasePathFs(afero.NewMemMapFs(), "/repo")).String(), "localfs@")
}

func setupStore(t testing.TB) storage.Store {
	t.Helper()

	fs := afero.NewMemMapFs()
	fakeFile(t, fs, "main.c,v")
	fakeFile(t, fs, "src/util.c,v")
	fakeFile(t, fs, "src/Attic/old.c,v")
	return New(fs)
}

func fakeFile(t testing.TB, fs afero.Fs, file string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, afero.WriteFile(fs, file, []byte("this is the text"), 0644))
}
