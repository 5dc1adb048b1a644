// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:     "checkout FILE",
	Aliases: []string{"co"},
	Short:   "Print a revision of a file",
	Long: `Print the text of a revision of a file.

The revision is a revision number, a symbol or a branch: a branch stands for its latest revision.
Without --revision, the head of the trunk is printed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := config.logger()

		r, release, err := config.repository(logger)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer release()

		co, err := r.Checkout(ctx, args[0], revizFlags.rev.revision)
		if err != nil {
			wrapFatalln("checkout "+args[0], err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), co.Text)
	},
}

func init() {
	addRevisionFlag(checkoutCmd)

	rootCmd.AddCommand(checkoutCmd)
}
