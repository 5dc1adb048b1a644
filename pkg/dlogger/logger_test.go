package dlogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	lvl, enabled, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	for _, off := range []string{LogLevelNone, ""} {
		_, enabled, err = ParseLevel(off)
		require.NoError(t, err)
		assert.False(t, enabled)
	}

	_, _, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestGetLogger(t *testing.T) {
	for _, lvl := range []string{LogLevelInfo, LogLevelDebug, LogLevelNone, "warn", ""} {
		l, err := GetLogger(lvl)
		require.NoErrorf(t, err, "level %q", lvl)
		require.NotNil(t, l)
	}

	_, err := GetLogger("chatty")
	assert.Error(t, err)
	assert.Panics(t, func() { _ = MustGetLogger("chatty") })
}

func TestLoggerOptions(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{FormatJSON, FormatConsole} {
		dest := filepath.Join(dir, format+".log")
		l := MustGetLogger(LogLevelInfo, WithFormat(format), WithOutput(dest))
		l.Info("checked out")
		l.Debug("dropped")
		_ = l.Sync()

		out, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(out), "checked out")
		assert.NotContains(t, string(out), "dropped")
		if format == FormatJSON {
			assert.Contains(t, string(out), `"msg":"checked out"`)
		} else {
			assert.Contains(t, string(out), "INFO")
		}
	}
}
