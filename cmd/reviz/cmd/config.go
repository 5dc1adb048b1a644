package cmd

import (
	"fmt"
	"time"

	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/dlogger"
	"github.com/oneconcern/reviz/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Root      string      `json:"root" yaml:"root"`           // Root directory of the repository
	LogLevel  string      `json:"loglevel" yaml:"loglevel"`   // Logging level
	LogFormat string      `json:"logformat" yaml:"logformat"` // console or json
	Algorithm string      `json:"algorithm" yaml:"algorithm"` // Diff algorithm used by commits
	Author    string      `json:"author" yaml:"author"`       // Default author of new revisions
	Cache     CacheConfig `json:"cache" yaml:"cache"`
	Lock      LockConfig  `json:"lock" yaml:"lock"`
}

// CacheConfig describes the checkout cache
type CacheConfig struct {
	Path    string `json:"path" yaml:"path"`       // No cache when empty
	Backend string `json:"backend" yaml:"backend"` // badger or pebble
}

// LockConfig describes how directory locks are acquired
type LockConfig struct {
	Retries uint64 `json:"retries" yaml:"retries"`
	Wait    string `json:"wait" yaml:"wait"` // Duration, such as "45s"
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	if _, _, err = dlogger.ParseLevel(config.LogLevel); err != nil {
		return nil, err
	}
	switch config.LogFormat {
	case dlogger.FormatConsole, dlogger.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format %q", config.LogFormat)
	}
	return &config, nil
}

func (c *CLIConfig) logger() *zap.Logger {
	logger, err := dlogger.GetLogger(c.LogLevel, dlogger.WithFormat(c.LogFormat))
	if err != nil {
		wrapFatalln("failed to set log level", err)
		return zap.NewNop()
	}
	return logger
}

func (c *CLIConfig) algorithm() (diff.Algorithm, error) {
	return diff.Lookup(c.Algorithm)
}

// repository opens the configured repository, with its checkout cache. The
// returned func releases the cache.
func (c *CLIConfig) repository(logger *zap.Logger) (*repo.Repository, func(), error) {
	alg, err := c.algorithm()
	if err != nil {
		return nil, nil, err
	}
	wait, err := time.ParseDuration(c.Lock.Wait)
	if err != nil {
		return nil, nil, err
	}

	opts := []repo.Option{
		repo.WithRoot(c.Root),
		repo.WithLogger(logger),
		repo.WithAlgorithm(alg),
		repo.WithLockRetries(c.Lock.Retries),
		repo.WithLockWait(wait, wait*2/3), // 45s gives a 30s jitter
		repo.WithInstrumentation(c.LogLevel == dlogger.LogLevelDebug),
	}

	release := func() {}
	if c.Cache.Path != "" {
		checkouts, err := c.cache(logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, repo.WithCache(checkouts))
		release = func() {
			if err := checkouts.Close(); err != nil {
				logger.Warn("closing checkout cache", zap.Error(err))
			}
		}
	}

	r, err := repo.New(opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return r, release, nil
}

func (c *CLIConfig) cache(logger *zap.Logger) (*cache.Cache, error) {
	return cache.Open(c.Cache.Path,
		cache.WithBackend(c.Cache.Backend),
		cache.WithLogger(logger),
	)
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage reviz CLI config.

Configuration for reviz is the common set of flags that are needed for most commands and do not change across runs.
The config file is $REVIZ_CONFIG, or reviz.yaml in the current directory or in $HOME/.reviz.
Environment variables such as REVIZ_ROOT or REVIZ_CACHE_PATH override the config file.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
