package main

import (
	"os"

	"github.com/spf13/cobra"

	"redditharvest/pkg/config"
	"redditharvest/pkg/dataset"
	"redditharvest/pkg/logger"
)

var (
	mergeDataDir string
	mergeOutput  string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge harvested JSON files into a single CSV dataset",
	Long: `Merge scans every community folder under the data directory, flattens
each post file into a fixed-column record and writes all records to one
CSV, overwriting any previous output. Each flair subfolder becomes its
own category; a community without flair subfolders is one category.`,
	Example: `  redditharvest merge
  redditharvest merge --data-dir data --output reddit_dataset.csv`,
	Args: cobra.NoArgs,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeDataDir, "data-dir", "", "directory containing harvested JSON files (default: data)")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "reddit_dataset.csv", "output CSV filename")
}

func runMerge(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if mergeDataDir != "" {
		flags["data-dir"] = mergeDataDir
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return err
	}

	merger := dataset.NewMerger(cfg.Output.DataDir, mergeOutput, log)
	records, err := merger.Run()
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"records": records,
		"output":  mergeOutput,
	}
	if info, statErr := os.Stat(mergeOutput); statErr == nil {
		fields["size_kb"] = float64(info.Size()) / 1024.0
	}
	log.InfoWithFields("merge complete", fields)
	return nil
}
