package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove FILE",
	Aliases: []string{"rm"},
	Short:   "Record the removal of a file",
	Long: `Record the removal of a file: a new revision in state dead keeps its last contents.

A file removed from the trunk moves to the Attic. Use --branch to remove a file from a branch only.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := config.logger()

		opts, err := commitOptions()
		if err != nil {
			wrapFatalln("invalid commit settings", err)
			return
		}

		r, release, err := config.repository(logger)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer release()

		rev, err := r.Remove(ctx, args[0], revizFlags.rev.branch, revizFlags.commit.message, opts...)
		if err != nil {
			wrapFatalln("remove "+args[0], err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), rev)
	},
}

func init() {
	requireFlags(removeCmd,
		addMessageFlag(removeCmd),
	)
	addBranchFlag(removeCmd)
	addAuthorFlag(removeCmd)
	addDateFlag(removeCmd)

	rootCmd.AddCommand(removeCmd)
}
