// Copyright © 2018 One Concern

package cmd

import (
	"strings"

	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/dlogger"
	"github.com/oneconcern/reviz/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type flagsT struct {
	root struct {
		repository string
		logLevel   string
		logFormat  string
		algorithm  string
		cpuProf    bool
		memProf    string
	}
	cache struct {
		path    string
		backend string
	}
	lock struct {
		retries uint64
		wait    string
	}
	rev struct {
		revision  string
		revisions []string
		branch    string
	}
	commit struct {
		message string
		author  string
		date    string
		state   string
		input   string
	}
	output struct {
		format  string
		short   bool
		unified bool
		context int
		file    string
	}
}

var revizFlags = flagsT{}

// bindFlags lets viper pick persistent flags over the config: flag "cache-path" sets key "cache.path".
func bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(strings.ReplaceAll(name, "-", "."), cmd.PersistentFlags().Lookup(name)); err != nil {
			logFatalln(err)
		}
	}
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			logFatalln(err)
		}
	}
}

func addRootFlag(cmd *cobra.Command) string {
	root := "root"
	cmd.PersistentFlags().StringVar(&revizFlags.root.repository, root, ".", "The root directory of the repository")
	return root
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&revizFlags.root.logLevel, loglevel, "warn", "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addLogFormat(cmd *cobra.Command) string {
	logformat := "logformat"
	cmd.PersistentFlags().StringVar(&revizFlags.root.logFormat, logformat, dlogger.FormatConsole, "The encoding of log lines: console or json")
	return logformat
}

func addAlgorithmFlag(cmd *cobra.Command) string {
	algorithm := "algorithm"
	cmd.PersistentFlags().StringVar(&revizFlags.root.algorithm, algorithm, diff.Default.Name(),
		"The diff algorithm computing deltas: "+strings.Join(diff.Algorithms(), ", "))
	return algorithm
}

func addCachePathFlag(cmd *cobra.Command) string {
	c := "cache-path"
	cmd.PersistentFlags().StringVar(&revizFlags.cache.path, c, "", "The directory of the checkout cache. No cache is used when empty")
	return c
}

func addCacheBackendFlag(cmd *cobra.Command) string {
	c := "cache-backend"
	cmd.PersistentFlags().StringVar(&revizFlags.cache.backend, c, cache.BackendBadger, "The key-value store of the checkout cache: badger or pebble")
	return c
}

func addLockRetriesFlag(cmd *cobra.Command) string {
	c := "lock-retries"
	cmd.PersistentFlags().Uint64Var(&revizFlags.lock.retries, c, repo.DefaultLockRetries, "The number of attempts at locking a directory")
	return c
}

func addLockWaitFlag(cmd *cobra.Command) string {
	c := "lock-wait"
	cmd.PersistentFlags().StringVar(&revizFlags.lock.wait, c, repo.DefaultLockWait.String(),
		"The minimum wait between attempts at locking a directory. Up to 30s are added at random")
	return c
}

func addCPUProfFlag(cmd *cobra.Command) string {
	c := "cpuprof"
	cmd.PersistentFlags().BoolVar(&revizFlags.root.cpuProf, c, false, "Toggle runtime profiling")
	return c
}

func addMemProfFlag(cmd *cobra.Command) string {
	c := "memprof"
	cmd.PersistentFlags().StringVar(&revizFlags.root.memProf, c, "", "Write heap profiles into this directory once the command completes")
	return c
}

func addRevisionFlag(cmd *cobra.Command) string {
	c := "revision"
	cmd.Flags().StringVarP(&revizFlags.rev.revision, c, "r", "", "A revision number, a symbol or a branch. Defaults to the head")
	return c
}

func addRevisionsFlag(cmd *cobra.Command) string {
	c := "revision"
	cmd.Flags().StringArrayVarP(&revizFlags.rev.revisions, c, "r", nil, "A revision number, a symbol or a branch. Repeat to set both sides")
	return c
}

func addBranchFlag(cmd *cobra.Command) string {
	c := "branch"
	cmd.Flags().StringVar(&revizFlags.rev.branch, c, "", "A branch symbol. Defaults to the trunk")
	return c
}

func addMessageFlag(cmd *cobra.Command) string {
	c := "message"
	cmd.Flags().StringVarP(&revizFlags.commit.message, c, "m", "", "The log message of the new revision")
	return c
}

func addAuthorFlag(cmd *cobra.Command) string {
	c := "author"
	cmd.Flags().StringVar(&revizFlags.commit.author, c, "", "The author of the new revision. Defaults to the configured author, then to the current user")
	return c
}

func addDateFlag(cmd *cobra.Command) string {
	c := "date"
	cmd.Flags().StringVar(&revizFlags.commit.date, c, "", `The date of the new revision, as RFC3339 or "2006-01-02 15:04:05" in UTC. Defaults to now`)
	return c
}

func addStateFlag(cmd *cobra.Command) string {
	c := "state"
	cmd.Flags().StringVar(&revizFlags.commit.state, c, "", "The state of the new revision. Defaults to Exp")
	return c
}

func addInputFlag(cmd *cobra.Command) string {
	c := "input"
	cmd.Flags().StringVar(&revizFlags.commit.input, c, "", "The file holding the new contents. Defaults to stdin")
	return c
}

func addOutputFormatFlag(cmd *cobra.Command) string {
	c := "output"
	cmd.Flags().StringVarP(&revizFlags.output.format, c, "o", formatText, "The output format: text, json or yaml")
	return c
}

func addShortFlag(cmd *cobra.Command) string {
	c := "short"
	cmd.Flags().BoolVar(&revizFlags.output.short, c, false, "Print one line per revision")
	return c
}

func addUnifiedFlag(cmd *cobra.Command) string {
	c := "unified"
	cmd.Flags().BoolVarP(&revizFlags.output.unified, c, "u", false, "Print a unified diff instead of an RCS edit script")
	return c
}

func addContextLinesFlag(cmd *cobra.Command) string {
	c := "context"
	cmd.Flags().IntVar(&revizFlags.output.context, c, 3, "The number of context lines of unified diffs")
	return c
}

func addOutputFileFlag(cmd *cobra.Command) string {
	c := "file"
	cmd.Flags().StringVar(&revizFlags.output.file, c, "", "The file to write. Defaults to stdout")
	return c
}
