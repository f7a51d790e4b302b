package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/config"
	errs "redditharvest/pkg/errors"
	"redditharvest/pkg/logger"
	"redditharvest/pkg/scraper"
)

var (
	fetchCount    int
	fetchDataDir  string
	fetchHeadless bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <collection-url>",
	Short: "Fetch posts and comments from a Reddit collection",
	Long: `Fetch opens the collection listing in a browser, pauses once so you
can clear any verification challenge, then scrolls the listing until it
has found the requested number of posts that were not captured in any
previous run. Each post is saved as one JSON file under the data
directory, namespaced by community and flair.

Posts that fail to extract are logged and skipped; they do not abort
the batch or change the exit code.`,
	Example: `  redditharvest fetch "https://www.reddit.com/r/bangladesh/?f=flair_name%3A%22AskDesh%22" --count 10
  redditharvest fetch "https://www.reddit.com/r/python/top/" --count 5 --data-dir ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchCount, "count", 0, "number of posts to fetch")
	fetchCmd.Flags().StringVar(&fetchDataDir, "data-dir", "", "directory for harvested JSON files (default: data)")
	fetchCmd.Flags().BoolVar(&fetchHeadless, "headless", false, "run the browser without a window (verification challenges cannot be solved)")
	_ = fetchCmd.MarkFlagRequired("count")
}

func runFetch(cmd *cobra.Command, args []string) error {
	collectionURL := strings.TrimSpace(args[0])

	if fetchCount <= 0 {
		return errs.New(errs.TypeUsage, "--count must be a positive number")
	}

	flags := make(map[string]interface{})
	if fetchDataDir != "" {
		flags["data-dir"] = fetchDataDir
	}
	if fetchHeadless {
		flags["headless"] = true
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	// Debug log lives inside the data root unless configured elsewhere
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.Output.DataDir, "fetch_debug.log")
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return err
	}

	log.InfoWithFields("redditharvest starting", map[string]interface{}{
		"version":  version,
		"url":      collectionURL,
		"count":    fetchCount,
		"data_dir": cfg.Output.DataDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface, err := browser.NewChrome(ctx, &cfg.Browser, &cfg.Fetch, log)
	if err != nil {
		log.WithError(err).Error("failed to start browser")
		return err
	}

	// The operator signals through stdin that any verification
	// challenge has been cleared.
	gate := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(gate)
	}()

	harvester := scraper.New(surface, cfg, log, gate)
	summary, err := harvester.Run(ctx, collectionURL, fetchCount)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			log.Warn("interrupted by user")
			return nil
		}
		return err
	}

	log.InfoWithFields("fetch finished", map[string]interface{}{
		"succeeded":     summary.Succeeded,
		"failed":        summary.Failed,
		"total_on_disk": summary.TotalOnDisk,
	})
	return nil
}
