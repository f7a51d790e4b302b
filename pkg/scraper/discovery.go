package scraper

import (
	"context"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/reddit"
)

// maxScrollCycles bounds discovery against a listing that never
// stabilizes or never yields enough posts.
const maxScrollCycles = 50

// CollectLinks walks the infinite-scroll listing and returns up to
// count post links whose fingerprints are not yet tracked. Links are
// returned in encounter order. Discovery stops as soon as count is
// reached, when scrolling stops growing the page, when the cycle cap
// is hit, or when ctx is cancelled; a short result is never an error.
func (h *Harvester) CollectLinks(ctx context.Context, count int) []reddit.Link {
	var links []reddit.Link
	seen := make(map[string]struct{})

	for cycle := 0; cycle < maxScrollCycles; cycle++ {
		if ctx.Err() != nil {
			return links
		}

		containers, err := h.surface.QueryAll(reddit.PostContainerTag)
		if err != nil {
			// The listing can be mid-render; burn the cycle and retry.
			h.log.WithError(err).Warn("failed to query post containers")
			continue
		}

		for _, container := range containers {
			linkEl, err := container.Query(reddit.PostLinkSelector)
			if err != nil {
				continue // transient rendering, drop this container
			}
			href, err := linkEl.Attribute(reddit.LinkAttribute)
			if err != nil || href == "" {
				continue
			}

			hash := reddit.Fingerprint(href)
			if _, dup := seen[hash]; dup {
				continue
			}
			seen[hash] = struct{}{}

			if h.tracker.Seen(hash) {
				continue // captured in a previous run
			}

			links = append(links, reddit.Link{
				URL:          href,
				Hash:         hash,
				VotesPreview: listingVotes(container),
			})
			h.log.InfoWithFields("found post", map[string]interface{}{
				"n":   len(links),
				"url": href,
			})

			if len(links) >= count {
				return links
			}
		}

		// Not enough yet: reveal more and check whether the listing
		// actually grew. An unchanged extent means it is exhausted,
		// which is a normal terminal condition.
		before, err := h.surface.ContentExtent()
		if err != nil {
			continue
		}
		if err := h.surface.ScrollToBottom(); err != nil {
			h.log.WithError(err).Warn("scroll failed")
			continue
		}
		after, err := h.surface.ContentExtent()
		if err != nil {
			continue
		}
		if after == before {
			h.log.Info("no more content to load")
			break
		}
	}

	return links
}

// listingVotes captures any score value the listing renders for a
// container. Purely best-effort: the value is only an extractor fallback
// for when the post page itself yields no vote count.
func listingVotes(container browser.Element) *string {
	el, err := container.Query(reddit.VoteNumberTag)
	if err != nil {
		return nil
	}
	value, err := textOrNumber(el)
	if err != nil || value == "" {
		return nil
	}
	return &value
}
