package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff FILE -r A [-r B]",
	Short: "Compare two revisions of a file",
	Long: `Compare two revisions of a file. With a single --revision, compare it with the head of the trunk.

The difference is printed as an RCS edit script, or as a unified diff with --unified.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := config.logger()

		revs := revizFlags.rev.revisions
		switch len(revs) {
		case 1:
			revs = append(revs, "")
		case 2:
		default:
			wrapFatalln("expected one or two revisions", nil)
			return
		}

		alg, err := config.algorithm()
		if err != nil {
			wrapFatalln("invalid algorithm", err)
			return
		}

		r, release, err := config.repository(logger)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer release()

		from, err := r.Checkout(ctx, args[0], revs[0])
		if err != nil {
			wrapFatalln("checkout "+args[0], err)
			return
		}
		to, err := r.Checkout(ctx, args[0], revs[1])
		if err != nil {
			wrapFatalln("checkout "+args[0], err)
			return
		}

		script := diff.Lines(from.Text, to.Text, alg)
		if !revizFlags.output.unified {
			fmt.Fprint(cmd.OutOrStdout(), diff.RCSDiff(script))
			return
		}

		out, err := diff.Unified(script,
			fmt.Sprintf("%s\t%s", args[0], from.Rev),
			fmt.Sprintf("%s\t%s", args[0], to.Rev),
			revizFlags.output.context,
		)
		if err != nil {
			wrapFatalln("unified diff", err)
			return
		}
		_, _ = cmd.OutOrStdout().Write(out)
	},
}

func init() {
	requireFlags(diffCmd,
		addRevisionsFlag(diffCmd),
	)
	addUnifiedFlag(diffCmd)
	addContextLinesFlag(diffCmd)

	rootCmd.AddCommand(diffCmd)
}
