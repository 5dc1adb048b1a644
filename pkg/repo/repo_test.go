package repo

import (
	"context"
	"testing"
	"time"

	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/errors"
	"github.com/oneconcern/reviz/pkg/rcs"
	rcsstatus "github.com/oneconcern/reviz/pkg/rcs/status"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

var testDate = time.Date(2018, 11, 2, 9, 30, 0, 0, time.UTC)

func testRepository(t *testing.T, opts ...Option) (*Repository, afero.Fs) {
	fs := afero.NewMemMapFs()
	r, err := New(append([]Option{
		WithFs(fs),
		WithOwner("me"),
		WithLockRetries(3),
		WithLockWait(time.Millisecond, 0),
		WithLogger(zap.NewNop()),
	}, opts...)...)
	require.NoError(t, err)

	return r, fs
}

func who() rcs.CommitOption {
	return rcs.WithAuthor("jdoe")
}

func requireExists(t *testing.T, fs afero.Fs, name string, expected bool) {
	found, err := afero.Exists(fs, name)
	require.NoError(t, err)
	require.Equalf(t, expected, found, "expected %s to exist: %t", name, expected)
}

func requireNoLock(t *testing.T, fs afero.Fs, dir string) {
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), lockNamePrefix)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		invalid  bool
	}{
		{name: "main.c", expected: "main.c"},
		{name: "/src/main.c", expected: "src/main.c"},
		{name: "src/./lib/../main.c,v", expected: "src/main.c"},
		{name: "", invalid: true},
		{name: "../main.c", invalid: true},
		{name: "src/Attic/main.c", invalid: true},
		{name: "src/#cvs.lock", invalid: true},
	}

	for _, toPin := range tests {
		tt := toPin
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clean, err := cleanName(tt.name)
			if tt.invalid {
				assert.True(t, errors.Is(err, ErrInvalidName))

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, clean)
		})
	}
}

func TestCommitCheckout(t *testing.T) {
	ctx := context.Background()
	r, fs := testRepository(t)

	rev, err := r.Commit(ctx, "src/main.c", "int main;\n", "initial", who(), rcs.WithDate(testDate))
	require.NoError(t, err)
	assert.Equal(t, "1.1", rev.String())
	requireExists(t, fs, "src/main.c,v", true)

	rev, err = r.Commit(ctx, "src/main.c", "int main;\nint x;\n", "more", who(), rcs.WithDate(testDate.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "1.2", rev.String())

	rev, err = r.Commit(ctx, "src/main.c", "fix\n", "fix", who(), rcs.WithRevision(revision.MustParse("1.1.2")))
	require.NoError(t, err)
	assert.Equal(t, "1.1.2.1", rev.String())

	co, err := r.Checkout(ctx, "src/main.c", "")
	require.NoError(t, err)
	assert.Equal(t, "1.2", co.Rev.String())
	assert.Equal(t, "int main;\nint x;\n", co.Text)
	assert.True(t, testDate.Add(time.Hour).Equal(co.Date))

	co, err = r.Checkout(ctx, "src/main.c", "1.1")
	require.NoError(t, err)
	assert.Equal(t, "int main;\n", co.Text)

	co, err = r.Checkout(ctx, "src/main.c", "1.1.2")
	require.NoError(t, err)
	assert.Equal(t, "1.1.2.1", co.Rev.String())
	assert.Equal(t, "fix\n", co.Text)

	_, err = r.Checkout(ctx, "src/main.c", "1.7")
	assert.True(t, errors.Is(err, rcsstatus.ErrRevisionNotExist))

	_, err = r.Checkout(ctx, "src/other.c", "")
	assert.True(t, errors.Is(err, ErrNoFile))

	requireNoLock(t, fs, "src")
}

func TestHeadOperations(t *testing.T) {
	ctx := context.Background()
	r, fs := testRepository(t)

	_, err := r.Checkin(ctx, "doc/README", "", "a\n", "log", who())
	assert.True(t, errors.Is(err, ErrNoFile))

	rev, err := r.Add(ctx, "doc/README", "", "a\n", "initial", who())
	require.NoError(t, err)
	assert.Equal(t, "1.1", rev.String())

	_, err = r.Add(ctx, "doc/README", "", "a\n", "again", who())
	assert.True(t, errors.Is(err, rcsstatus.ErrAlreadyExist))

	_, err = r.Checkin(ctx, "doc/README", "nosuchbranch", "b\n", "log", who())
	assert.True(t, errors.Is(err, ErrNoBranch))

	rev, err = r.Checkin(ctx, "doc/README", "", "a\nb\n", "more", who())
	require.NoError(t, err)
	assert.Equal(t, "1.2", rev.String())

	rev, err = r.Remove(ctx, "doc/README", "", "gone", who())
	require.NoError(t, err)
	assert.Equal(t, "1.3", rev.String())
	requireExists(t, fs, "doc/README,v", false)
	requireExists(t, fs, "doc/Attic/README,v", true)

	heads, err := r.Heads(ctx, "doc/README")
	require.NoError(t, err)
	assert.False(t, heads[""].Exists())

	// removed files keep their history
	co, err := r.Checkout(ctx, "doc/README", "")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", co.Text)

	names, err := r.ListFiles(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc/README"}, names)

	_, err = r.Remove(ctx, "doc/README", "", "twice", who())
	assert.True(t, errors.Is(err, rcsstatus.ErrNotExist))

	rev, err = r.Add(ctx, "doc/README", "", "revived\n", "back", who())
	require.NoError(t, err)
	assert.Equal(t, "1.4", rev.String())
	requireExists(t, fs, "doc/README,v", true)
	requireExists(t, fs, "doc/Attic/README,v", false)

	requireNoLock(t, fs, "doc")
}

func TestLocks(t *testing.T) {
	ctx := context.Background()
	r, fs := testRepository(t)

	_, err := r.Commit(ctx, "main.c", "a\n", "initial", who())
	require.NoError(t, err)

	t.Run("master lock held", func(t *testing.T) {
		require.NoError(t, fs.Mkdir(masterLockName, 0755))
		defer func() {
			require.NoError(t, fs.Remove(masterLockName))
		}()

		_, err := r.Open(ctx, "main.c")
		assert.True(t, errors.Is(err, ErrLockFailure))

		_, err = r.Commit(ctx, "main.c", "b\n", "blocked", who())
		assert.True(t, errors.Is(err, ErrLockFailure))
	})

	t.Run("foreign reader", func(t *testing.T) {
		const rfl = readLockPrefix + "someone"
		require.NoError(t, afero.WriteFile(fs, rfl, nil, 0644))
		defer func() {
			require.NoError(t, fs.Remove(rfl))
		}()

		// readers share the directory
		f, err := r.Open(ctx, "main.c")
		require.NoError(t, err)
		assert.Equal(t, "1.1", f.Chain.Head.String())
		requireExists(t, fs, readLockPrefix+"me", false)

		_, err = r.Commit(ctx, "main.c", "b\n", "blocked", who())
		assert.True(t, errors.Is(err, ErrLockFailure))
		requireExists(t, fs, masterLockName, false)
		requireExists(t, fs, writeLockPrefix+"me", false)
	})

	t.Run("foreign writer", func(t *testing.T) {
		const wfl = writeLockPrefix + "someone"
		require.NoError(t, fs.Mkdir(masterLockName, 0755))
		require.NoError(t, afero.WriteFile(fs, wfl, nil, 0644))
		defer func() {
			require.NoError(t, fs.Remove(wfl))
			require.NoError(t, fs.Remove(masterLockName))
		}()

		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.Open(ctx, "main.c")
		assert.True(t, errors.Is(err, ErrLockFailure))
		assert.True(t, errors.Is(err, context.Canceled))
	})

	rev, err := r.Commit(ctx, "main.c", "b\n", "unblocked", who())
	require.NoError(t, err)
	assert.Equal(t, "1.2", rev.String())
	requireNoLock(t, fs, ".")
}

func TestLockBackOff(t *testing.T) {
	r, _ := testRepository(t, WithLockRetries(10), WithLockWait(45*time.Second, 30*time.Second))

	b := r.lockBackOff(context.Background())
	b.Reset()
	for i := 0; i < 9; i++ {
		wait := b.NextBackOff()
		assert.GreaterOrEqual(t, wait, 45*time.Second)
		assert.LessOrEqual(t, wait, 75*time.Second)
	}
	assert.Less(t, b.NextBackOff(), time.Duration(0), "expected retries to stop after 10 tries")
}

func TestParseAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	r, fs := testRepository(t, WithParallelism(2))

	expected := []string{"lib/a.c", "lib/b.c", "lib/c.c", "lib/d.c", "lib/e.c"}
	for _, name := range expected {
		_, err := r.Commit(ctx, name, name+"\n", "initial", who())
		require.NoError(t, err)
	}
	_, err := r.Remove(ctx, "lib/e.c", "", "gone", who())
	require.NoError(t, err)
	_, err = r.Commit(ctx, "lib/sub/f.c", "f\n", "initial", who())
	require.NoError(t, err)

	names, err := r.ListFiles(ctx, "lib")
	require.NoError(t, err)
	assert.Equal(t, expected, names)

	files, err := r.ParseAll(ctx, "lib")
	require.NoError(t, err)
	require.Len(t, files, len(expected))
	assert.True(t, files["lib/e.c"].Attic)
	assert.False(t, files["lib/a.c"].Attic)
	txt, _, err := files["lib/c.c"].Chain.Checkout(files["lib/c.c"].Chain.Head)
	require.NoError(t, err)
	assert.Equal(t, "lib/c.c\n", txt)

	require.NoError(t, afero.WriteFile(fs, "lib/z.c,v", []byte("head 1.1;\n"), 0644))
	_, err = r.ParseAll(ctx, "lib")
	var fe *rcs.FormatError
	require.True(t, errors.As(err, &fe))

	_, err = r.ListFiles(ctx, "nowhere")
	assert.True(t, errors.Is(err, ErrNoFile))

	_, err = r.Commit(ctx, "top.c", "top\n", "initial", who())
	require.NoError(t, err)
	for _, root := range []string{"", ".", "/"} {
		names, err = r.ListFiles(ctx, root)
		require.NoError(t, err)
		assert.Equalf(t, []string{"top.c"}, names, "listing %q", root)
	}

	requireNoLock(t, fs, "lib")
}

func TestCheckoutCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.Open("", cache.WithInMemory(true))
	require.NoError(t, err)
	defer func() {
		_ = c.Close()
	}()

	r, _ := testRepository(t, WithCache(c), WithInstrumentation(true))

	_, err = r.Commit(ctx, "main.c", "a\n", "initial", who())
	require.NoError(t, err)
	_, err = r.Commit(ctx, "main.c", "b\n", "second", who())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		co, err := r.Checkout(ctx, "main.c", "1.1")
		require.NoError(t, err)
		assert.Equal(t, "a\n", co.Text)
	}

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}
