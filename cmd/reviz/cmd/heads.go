package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

type headInfo struct {
	File     string `json:"file" yaml:"file"`
	Tag      string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Branch   string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Revision string `json:"revision" yaml:"revision"`
	State    string `json:"state" yaml:"state"`
	Next     string `json:"next" yaml:"next"`
}

func headsFormatter(w io.Writer, data interface{}) error {
	table := uitable.New()
	table.AddRow("FILE", "TAG", "BRANCH", "REVISION", "STATE", "NEXT")
	for _, h := range data.([]headInfo) {
		tag, branch := h.Tag, h.Branch
		if tag == "" {
			tag = "(trunk)"
		}
		if branch == "" {
			branch = "-"
		}
		state := h.State
		if state == "dead" {
			state = color.RedString(state)
		}
		table.AddRow(h.File, tag, branch, h.Revision, state, h.Next)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

var headsCmd = &cobra.Command{
	Use:   "heads FILE...",
	Short: "Print the latest revision of the trunk and of each tagged branch",
	Long: `Print the latest revision of the trunk and of each branch named by a symbol, for each file.

NEXT is the revision the next commit on that head creates.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := config.logger()

		r, release, err := config.repository(logger)
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer release()

		var infos []headInfo
		for _, name := range args {
			heads, err := r.Heads(ctx, name)
			if err != nil {
				wrapFatalln("heads of "+name, err)
				return
			}
			tags := make([]string, 0, len(heads))
			for tag := range heads {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				h := heads[tag]
				info := headInfo{
					File:     name,
					Tag:      h.Tag,
					Revision: h.Rev.String(),
					State:    h.State,
					Next:     h.NextRev().String(),
				}
				if !h.Branch.IsZero() {
					info.Branch = h.Branch.String()
				}
				infos = append(infos, info)
			}
		}
		printOutput(cmd, infos)
	},
}

func init() {
	addFormatFlag(headsCmd, FormatterFunc(headsFormatter))

	rootCmd.AddCommand(headsCmd)
}
