package cmd

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Formatter writes command results
type Formatter interface {
	Format(io.Writer, interface{}) error
}

// FormatterFunc is a function writing command results
type FormatterFunc func(io.Writer, interface{}) error

// Format data
func (f FormatterFunc) Format(w io.Writer, data interface{}) error {
	return f(w, data)
}

var (
	jsonFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	})

	yamlFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
		b, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	})

	textFormatters = make(map[*cobra.Command]Formatter)
)

// addFormatFlag registers the text rendering of a command, next to json and yaml.
func addFormatFlag(cmd *cobra.Command, text Formatter) string {
	textFormatters[cmd] = text
	return addOutputFormatFlag(cmd)
}

func printOutput(cmd *cobra.Command, data interface{}) {
	var formatter Formatter
	switch revizFlags.output.format {
	case formatJSON:
		formatter = jsonFormatter
	case formatYAML:
		formatter = yamlFormatter
	case formatText, "":
		formatter = textFormatters[cmd]
	}
	if formatter == nil {
		wrapFatalln(fmt.Sprintf("unsupported output format %q", revizFlags.output.format), nil)
		return
	}
	if err := formatter.Format(cmd.OutOrStdout(), data); err != nil {
		wrapFatalln("print result", err)
	}
}
