package cmd

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Commands to manage the checkout cache",
	Long: `Commands to manage the checkout cache set with --cache-path.

The cache keeps checked out revisions, keyed by a digest of their delta chain: entries for modified chains are never used again.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCmd.PersistentPreRun(cmd, args)
		if config.Cache.Path == "" {
			wrapFatalln("no checkout cache configured", nil)
		}
	},
}

func cacheStatsFormatter(w io.Writer, data interface{}) error {
	stats := data.(cacheStats)
	_, err := fmt.Fprintf(w, "%s (%s): %d entries, %s\n", stats.Path, stats.Backend, stats.Entries, units.HumanSize(float64(stats.Size)))
	return err
}

type cacheStats struct {
	Path    string `json:"path" yaml:"path"`
	Backend string `json:"backend" yaml:"backend"`
	Entries int    `json:"entries" yaml:"entries"`
	Size    uint64 `json:"size" yaml:"size"`
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of cached revisions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := config.cache(config.logger())
		if err != nil {
			wrapFatalln("open cache", err)
			return
		}
		defer func() {
			_ = c.Close()
		}()

		stats, err := c.Stats()
		if err != nil {
			wrapFatalln("cache stats", err)
			return
		}
		printOutput(cmd, cacheStats{
			Path:    config.Cache.Path,
			Backend: stats.Backend,
			Entries: stats.Entries,
			Size:    stats.Size,
		})
	},
}

var cacheDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove all cached revisions",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := config.cache(config.logger())
		if err != nil {
			wrapFatalln("open cache", err)
			return
		}
		defer func() {
			_ = c.Close()
		}()

		if err := c.Drop(); err != nil {
			wrapFatalln("drop cache", err)
		}
	},
}

func init() {
	addFormatFlag(cacheStatsCmd, FormatterFunc(cacheStatsFormatter))

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheDropCmd)
	rootCmd.AddCommand(cacheCmd)
}
