// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/oneconcern/reviz/pkg/rcs"
	"github.com/oneconcern/reviz/pkg/repo"
	"github.com/oneconcern/reviz/pkg/revision"
	"github.com/spf13/cobra"
)

type annotation struct {
	Line            int       `json:"line" yaml:"line"`
	Revision        string    `json:"revision" yaml:"revision"`
	Author          string    `json:"author" yaml:"author"`
	Date            time.Time `json:"date" yaml:"date"`
	Text            string    `json:"text" yaml:"text"`
	RemovedRevision string    `json:"removedRevision,omitempty" yaml:"removedRevision,omitempty"`
}

func annotateTarget(f *repo.File, rev, branch string) (revision.Revision, revision.Revision, error) {
	var br revision.Revision
	if branch != "" {
		var err error
		br, err = f.Chain.Resolve(branch)
		if err != nil {
			return revision.Revision{}, br, err
		}
		if rev == "" {
			rev = branch
		}
	}
	target, err := f.Resolve(rev)
	return target, br, err
}

func annotationFormatter(w io.Writer, data interface{}) error {
	for _, a := range data.([]annotation) {
		_, err := fmt.Fprintf(w, "%s (%s %s): %s\n",
			color.CyanString("%-12s", a.Revision),
			color.YellowString("%-8s", a.Author),
			a.Date.Format("02-Jan-06"),
			strings.TrimSuffix(a.Text, "\n"),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

var annotateCmd = &cobra.Command{
	Use:     "annotate FILE",
	Aliases: []string{"blame"},
	Short:   "Print each line of a revision with the revision it comes from",
	Long: `Print each line of a revision of a file, with the revision that introduced it, its author and date.

The history is followed down the trunk, then up along --branch. A branch revision implies its own branch.`,
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

		f, err := r.Open(ctx, args[0])
		if err != nil {
			wrapFatalln("open "+args[0], err)
			return
		}
		target, branch, err := annotateTarget(f, revizFlags.rev.revision, revizFlags.rev.branch)
		if err != nil {
			wrapFatalln("resolve revision", err)
			return
		}

		var annotations []annotation
		err = f.Chain.Annotate(target, branch, func(l rcs.Line) {
			a := annotation{
				Line:     len(annotations) + 1,
				Revision: l.Rev.String(),
				Author:   l.Author,
				Date:     l.Date,
				Text:     l.Text,
			}
			if l.Removed {
				a.RemovedRevision = l.RemovedRev.String()
			}
			annotations = append(annotations, a)
		})
		if err != nil {
			wrapFatalln("annotate "+args[0], err)
			return
		}
		printOutput(cmd, annotations)
	},
}

func init() {
	addRevisionFlag(annotateCmd)
	addBranchFlag(annotateCmd)
	addFormatFlag(annotateCmd, FormatterFunc(annotationFormatter))

	rootCmd.AddCommand(annotateCmd)
}
