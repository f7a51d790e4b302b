package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redditharvest",
	Short: "Incrementally harvest Reddit posts and comments into a dataset",
	Long: `redditharvest collects posts and their full comment trees from a
Reddit community listing rendered in a real browser, saving each post
exactly once across repeated runs, and merges the harvested files into
a single CSV dataset.

Typical workflow:

  # Harvest 10 new posts from a community (flair filters are honored)
  redditharvest fetch "https://www.reddit.com/r/bangladesh/?f=flair_name%3A%22AskDesh%22" --count 10

  # Flatten everything harvested so far into one CSV
  redditharvest merge --output reddit_dataset.csv`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on any error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .redditharvest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
