// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/reviz/pkg/rcs"
	"github.com/oneconcern/reviz/pkg/repo"
	"github.com/spf13/cobra"
)

type symbolLog struct {
	Name     string `json:"name" yaml:"name"`
	Revision string `json:"revision" yaml:"revision"`
}

type revisionLog struct {
	Revision string    `json:"revision" yaml:"revision"`
	Date     time.Time `json:"date" yaml:"date"`
	Author   string    `json:"author" yaml:"author"`
	State    string    `json:"state" yaml:"state"`
	Branches []string  `json:"branches,omitempty" yaml:"branches,omitempty"`
	Log      string    `json:"log" yaml:"log"`
}

type fileLog struct {
	File        string        `json:"file" yaml:"file"`
	Chain       string        `json:"chain" yaml:"chain"`
	Size        int           `json:"size" yaml:"size"`
	Head        string        `json:"head" yaml:"head"`
	Branch      string        `json:"branch,omitempty" yaml:"branch,omitempty"`
	Symbols     []symbolLog   `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Revisions   []revisionLog `json:"revisions" yaml:"revisions"`
}

func newFileLog(f *repo.File) (fileLog, error) {
	l := fileLog{
		File:        f.Name,
		Chain:       f.Path(),
		Size:        f.Size(),
		Head:        f.Chain.Head.String(),
		Branch:      f.Chain.Branch.String(),
		Description: f.Chain.Desc,
	}
	for _, sym := range f.Chain.Symbols {
		rev := sym.Rev.String()
		if sym.Magic {
			rev = sym.Rev.MagicString()
		}
		l.Symbols = append(l.Symbols, symbolLog{Name: sym.Name, Revision: rev})
	}

	err := f.Chain.Walk(func(d *rcs.Delta) error {
		entry := revisionLog{
			Revision: d.Rev.String(),
			Date:     d.Date,
			Author:   d.Author,
			State:    d.State,
			Log:      d.Log,
		}
		for _, b := range d.Branches {
			entry.Branches = append(entry.Branches, b.String())
		}
		l.Revisions = append(l.Revisions, entry)
		return nil
	})
	return l, err
}

func firstLine(s string) string {
	return strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
}

func logFormatter(w io.Writer, data interface{}) error {
	l := data.(fileLog)

	if revizFlags.output.short {
		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("REVISION", "DATE", "AUTHOR", "STATE", "LOG")
		for _, r := range l.Revisions {
			table.AddRow(r.Revision, r.Date.Format(time.RFC3339), r.Author, r.State, firstLine(r.Log))
		}
		_, err := fmt.Fprintln(w, table)
		return err
	}

	fmt.Fprintf(w, "    File: %s\n", l.File)
	fmt.Fprintf(w, "   Chain: %s (%s)\n", l.Chain, units.HumanSize(float64(l.Size)))
	fmt.Fprintf(w, "    Head: %s\n", color.MagentaString(l.Head))
	if l.Branch != "" {
		fmt.Fprintf(w, "  Branch: %s\n", l.Branch)
	}
	if len(l.Symbols) > 0 {
		names := make([]string, 0, len(l.Symbols))
		for _, sym := range l.Symbols {
			names = append(names, sym.Name+": "+color.MagentaString(sym.Revision))
		}
		fmt.Fprintf(w, " Symbols: %s\n", strings.Join(names, ", "))
	}
	if l.Description != "" {
		fmt.Fprintf(w, "    Desc: %s\n", firstLine(l.Description))
	}

	for _, r := range l.Revisions {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Revision: %s\n", color.MagentaString(r.Revision))
		fmt.Fprintf(w, "  Author: %s\n", color.YellowString(r.Author))
		fmt.Fprintf(w, "    Date: %s\n", color.YellowString(r.Date.Format(time.RFC3339)))
		fmt.Fprintf(w, "   State: %s\n", r.State)
		if len(r.Branches) > 0 {
			fmt.Fprintf(w, "Branches: %s\n", strings.Join(r.Branches, ", "))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(r.Log, "\n"))
	}
	return nil
}

var logCmd = &cobra.Command{
	Use:   "log FILE",
	Short: "Print the revision history of a file",
	Long:  `Print the revisions of a file with their authors, dates and log messages.`,
	Args:  cobra.ExactArgs(1),
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
		l, err := newFileLog(f)
		if err != nil {
			wrapFatalln("walk revisions", err)
			return
		}
		printOutput(cmd, l)
	},
}

func init() {
	addFormatFlag(logCmd, FormatterFunc(logFormatter))
	addShortFlag(logCmd)

	rootCmd.AddCommand(logCmd)
}
