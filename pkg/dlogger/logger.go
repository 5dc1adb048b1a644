// Package dlogger builds the zap loggers used by reviz.
//
// Loggers write to stderr: stdout is reserved for command output, such as
// checked out text or annotations.
package dlogger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone sets logger to no logging
	LogLevelNone = "none"

	// FormatConsole renders human readable log lines
	FormatConsole = "console"

	// FormatJSON renders one JSON object per log line
	FormatJSON = "json"
)

// Option configures a logger.
type Option func(*zap.Config)

// WithFormat selects the log encoding, one of FormatConsole or FormatJSON.
func WithFormat(format string) Option {
	return func(c *zap.Config) {
		if format == "" {
			return
		}
		c.Encoding = format
		if format == FormatConsole {
			c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}
}

// WithOutput redirects logs to the given zap sinks, e.g. a file path.
func WithOutput(paths ...string) Option {
	return func(c *zap.Config) {
		c.OutputPaths = paths
	}
}

// ParseLevel validates a log level. An empty level is the same as LogLevelNone.
func ParseLevel(logLevel string) (zapcore.Level, bool, error) {
	if logLevel == LogLevelNone || logLevel == "" {
		return zapcore.InvalidLevel, false, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return zapcore.InvalidLevel, false, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	return lvl, true, nil
}

// GetLogger returns a zap logger with the specified level
func GetLogger(logLevel string, opts ...Option) (*zap.Logger, error) {
	lvl, enabled, err := ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return zap.NewNop(), nil
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.DisableStacktrace = lvl > zapcore.DebugLevel
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	for _, apply := range opts {
		apply(&zapConfig)
	}

	return zapConfig.Build()
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string, opts ...Option) *zap.Logger {
	l, err := GetLogger(logLevel, opts...)
	if err != nil {
		panic(err)
	}
	return l
}
