// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/oneconcern/reviz/pkg/rcs"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/spf13/cobra"
)

var commitDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCommitDate(s string) (time.Time, error) {
	var err error
	for _, layout := range commitDateLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// commitOptions builds the options shared by commands recording revisions
func commitOptions() ([]rcs.CommitOption, error) {
	var opts []rcs.CommitOption

	author := revizFlags.commit.author
	if author == "" {
		author = config.Author
	}
	if author != "" {
		opts = append(opts, rcs.WithAuthor(author))
	}
	if revizFlags.commit.date != "" {
		date, err := parseCommitDate(revizFlags.commit.date)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rcs.WithDate(date))
	}
	return opts, nil
}

func readContents(cmd *cobra.Command) (string, error) {
	var (
		b   []byte
		err error
	)
	if revizFlags.commit.input != "" {
		b, err = ioutil.ReadFile(revizFlags.commit.input)
	} else {
		b, err = io.ReadAll(cmd.InOrStdin())
	}
	return string(b), err
}

var commitCmd = &cobra.Command{
	Use:     "commit FILE",
	Aliases: []string{"ci"},
	Short:   "Record a new revision of a file",
	Long: `Record a new revision of a file, read from --input or from stdin.

The delta chain is created for a new file. Without --revision, the new revision follows the head of the trunk.
A branch number commits the next revision on that branch, starting the branch when it has none.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := config.logger()

		opts, err := commitOptions()
		if err != nil {
			wrapFatalln("invalid commit settings", err)
			return
		}
		opts = append(opts, rcs.WithState(revizFlags.commit.state))
		if revizFlags.rev.revision != "" {
			rev, err := revision.Parse(revizFlags.rev.revision)
			if err != nil {
				wrapFatalln("invalid revision", err)
				return
			}
			opts = append(opts, rcs.WithRevision(rev))
		}

		contents, err := readContents(cmd)
		if err != nil {
			wrapFatalln("read contents", err)
			return
		}

		r, release, err := config.repository(logger)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer release()

		rev, err := r.Commit(ctx, args[0], contents, revizFlags.commit.message, opts...)
		if err != nil {
			wrapFatalln("commit "+args[0], err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), rev)
	},
}

func init() {
	requireFlags(commitCmd,
		addMessageFlag(commitCmd),
	)
	addRevisionFlag(commitCmd)
	addAuthorFlag(commitCmd)
	addDateFlag(commitCmd)
	addStateFlag(commitCmd)
	addInputFlag(commitCmd)

	rootCmd.AddCommand(commitCmd)
}
