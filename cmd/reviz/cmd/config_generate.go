package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGenerate = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config",
	Long: `Generate a config file from the current settings: flags, environment and any config file in use.

The config is printed, or written to --file.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		o, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		if revizFlags.output.file == "" {
			_, _ = cmd.OutOrStdout().Write(o)
			return
		}
		if dir := filepath.Dir(revizFlags.output.file); dir != "" {
			_ = os.MkdirAll(dir, 0700)
		}
		err = ioutil.WriteFile(revizFlags.output.file, o, 0600)
		if err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	addOutputFileFlag(configGenerate)

	configCmd.AddCommand(configGenerate)
}
