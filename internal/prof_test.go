package internal

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaybeMemProf(t *testing.T) {
	dir := t.TempDir()

	base, err := MaybeMemProf(MemProfParams{DestDir: dir, NamePrefix: "test"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test-0-0"), base)

	for _, suffix := range []string{".mem.prof", ".alloc.prof"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	t.Run("below threshold", func(t *testing.T) {
		base, err := MaybeMemProf(MemProfParams{
			MemStats: &runtime.MemStats{},
			MinMB:    MinProfMB{Alloc: 1},
			DestDir:  dir,
		})
		require.NoError(t, err)
		assert.Empty(t, base)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := MaybeMemProf(MemProfParams{DestDir: filepath.Join(dir, "nowhere")})
		require.Error(t, err)
	})
}
