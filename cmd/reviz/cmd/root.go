// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/oneconcern/reviz/internal"
	"github.com/oneconcern/reviz/pkg/cache"
	"github.com/oneconcern/reviz/pkg/diff"
	"github.com/oneconcern/reviz/pkg/dlogger"
	"github.com/oneconcern/reviz/pkg/repo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviz",
	Short: "reviz reads and writes the revision history of files",
	Long: `reviz reads and writes revision histories kept as delta chains, in the RCS file format.

Each tracked file of a repository has a delta chain, named after the file with a ",v" suffix.
The chain holds the latest revision in full, and the deltas that rebuild every other revision.
Removed files keep their history in the Attic.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if revizFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if revizFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
		if revizFlags.root.memProf != "" {
			base, err := internal.MaybeMemProf(internal.MemProfParams{
				DestDir:    revizFlags.root.memProf,
				NamePrefix: "reviz_" + cmd.Name(),
			})
			if err != nil {
				log.Println("could not write memory profile:", err)
				return
			}
			log.Println("memory profile written to", base+".mem.prof")
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	bindFlags(rootCmd,
		addRootFlag(rootCmd),
		addLogLevel(rootCmd),
		addLogFormat(rootCmd),
		addAlgorithmFlag(rootCmd),
		addCachePathFlag(rootCmd),
		addCacheBackendFlag(rootCmd),
		addLockRetriesFlag(rootCmd),
		addLockWaitFlag(rootCmd),
	)
	addCPUProfFlag(rootCmd)
	addMemProfFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("root", ".")
	viper.SetDefault("loglevel", "warn")
	viper.SetDefault("logformat", dlogger.FormatConsole)
	viper.SetDefault("algorithm", diff.Default.Name())
	viper.SetDefault("author", "")
	viper.SetDefault("cache.path", "")
	viper.SetDefault("cache.backend", cache.BackendBadger)
	viper.SetDefault("lock.retries", repo.DefaultLockRetries)
	viper.SetDefault("lock.wait", repo.DefaultLockWait.String())

	if os.Getenv("REVIZ_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("REVIZ_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.reviz")
		viper.SetConfigName("reviz")
	}

	viper.SetEnvPrefix("reviz")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
