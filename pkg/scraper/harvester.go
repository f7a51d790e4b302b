// Package scraper contains the incremental collection engine: the
// discovery loop that surfaces not-yet-seen post links from an
// infinite-scroll listing, the extractor that turns one rendered post
// into a fully materialized record with its comment tree, and the
// orchestrator that sequences a whole run.
package scraper

import (
	"context"
	"time"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/config"
	"redditharvest/pkg/errors"
	"redditharvest/pkg/logger"
	"redditharvest/pkg/reddit"
	"redditharvest/pkg/store"
	"redditharvest/pkg/tracker"
)

// Summary reports the outcome of one harvesting run
type Summary struct {
	Succeeded   int
	Failed      int
	TotalOnDisk int
}

// Harvester drives one strictly sequential harvesting run: one browser
// session, one post at a time, one committed write at a time.
type Harvester struct {
	surface browser.Surface
	cfg     *config.Config
	log     logger.Logger

	// gate delivers the operator's proceed signal for the manual
	// verification pause. The run blocks on it exactly once.
	gate <-chan struct{}

	tracker *tracker.Tracker
	writer  *store.Writer
}

// New creates a Harvester. The surface is owned by the harvester from
// here on and is released when Run returns, on every exit path.
func New(surface browser.Surface, cfg *config.Config, log logger.Logger, gate <-chan struct{}) *Harvester {
	return &Harvester{
		surface: surface,
		cfg:     cfg,
		log:     log,
		gate:    gate,
	}
}

// Run executes a full collection pass: load scope state, open the
// listing, wait for the operator to clear any verification challenge,
// discover up to count new links, then extract and persist each one.
// Per-post failures are counted and skipped; they never abort the
// batch. The returned summary is valid even when err is non-nil.
func (h *Harvester) Run(ctx context.Context, collectionURL string, count int) (*Summary, error) {
	defer func() {
		if err := h.surface.Shutdown(); err != nil {
			h.log.WithError(err).Warn("browser shutdown failed")
		}
	}()

	summary := &Summary{}

	scope := reddit.ParseScope(collectionURL)
	dir := scope.Dir(h.cfg.Output.DataDir)

	tr, err := tracker.Load(dir, h.log)
	if err != nil {
		return summary, errors.Wrap(errors.TypeResource, "failed to load tracker state", err)
	}
	h.tracker = tr
	h.writer = store.NewWriter(dir, tr, h.log)

	h.log.InfoWithFields("starting collection run", map[string]interface{}{
		"community": scope.Name(),
		"dir":       dir,
		"count":     count,
		"next_id":   tr.NextID(),
	})

	if err := h.surface.Navigate(collectionURL); err != nil {
		return summary, errors.Wrap(errors.TypeResource, "failed to open collection page", err)
	}

	// Manual gate: a single blocking pause so the operator can clear
	// any verification challenge before automated traversal begins.
	h.log.Warn("solve any verification challenge in the browser, then press ENTER to continue")
	select {
	case <-h.gate:
		h.log.Info("operator signalled, continuing")
	case <-ctx.Done():
		return summary, ctx.Err()
	}

	links := h.CollectLinks(ctx, count)
	if len(links) == 0 {
		h.log.Warn("no new post links found")
		summary.TotalOnDisk = store.CountPostFiles(dir)
		return summary, ctx.Err()
	}

	for i, link := range links {
		if ctx.Err() != nil {
			h.log.Warn("run interrupted, stopping early")
			break
		}

		h.log.InfoWithFields("processing post", map[string]interface{}{
			"index": i + 1,
			"total": len(links),
			"url":   link.URL,
		})

		post, err := h.ExtractPost(ctx, link)
		if err != nil {
			summary.Failed++
			h.log.WithError(err).WithField("url", link.URL).Error("failed to extract post")
		} else if _, err := h.writer.Write(post); err != nil {
			summary.Failed++
			h.log.WithError(err).WithField("url", link.URL).Error("failed to persist post")
		} else {
			summary.Succeeded++
		}

		if i < len(links)-1 {
			select {
			case <-time.After(h.cfg.Fetch.ItemDelay):
			case <-ctx.Done():
			}
		}
	}

	summary.TotalOnDisk = store.CountPostFiles(dir)
	h.log.InfoWithFields("collection run finished", map[string]interface{}{
		"succeeded":     summary.Succeeded,
		"failed":        summary.Failed,
		"total_on_disk": summary.TotalOnDisk,
		"community":     scope.Name(),
	})

	return summary, ctx.Err()
}

// queryOne returns the first page-level match for a selector
func (h *Harvester) queryOne(selector string) (browser.Element, error) {
	elements, err := h.surface.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, browser.ErrNotFound
	}
	return elements[0], nil
}
