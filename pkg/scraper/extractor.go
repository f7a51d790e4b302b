package scraper

import (
	"context"
	"strings"
	"time"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/errors"
	"redditharvest/pkg/logger"
	"redditharvest/pkg/reddit"
)

// ExtractPost opens the post in an auxiliary tab and pulls everything
// the rendered page permits. Every field is best-effort on its own: a
// missing title, body or vote count becomes null, never a failure. Only
// a fault that prevents loading the page at all fails the whole post.
// The auxiliary tab is closed before returning, on the failure path too.
func (h *Harvester) ExtractPost(ctx context.Context, link reddit.Link) (*reddit.Post, error) {
	log := h.log.WithField("url", link.URL)

	if err := h.surface.OpenTab(); err != nil {
		return nil, errors.Wrap(errors.TypeItem, "failed to open post tab", err)
	}
	defer func() {
		if err := h.surface.CloseTab(); err != nil {
			log.WithError(err).Warn("failed to close post tab")
		}
	}()

	if err := h.surface.Navigate(link.URL); err != nil {
		return nil, errors.Wrap(errors.TypeItem, "failed to load post page", err)
	}

	post := &reddit.Post{
		URL:       link.URL,
		Hash:      link.Hash,
		ScrapedAt: time.Now(),
		Comments:  []reddit.Comment{},
	}

	post.Title = h.readTitle(log)
	post.Description = h.readDescription(log)
	post.Votes = h.readVotes(link.VotesPreview, log)

	// Nested replies render lazily; push the page down a few times
	// before walking the tree.
	for i := 0; i < h.cfg.Fetch.CommentScrollPasses; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := h.surface.ScrollToBottom(); err != nil {
			break
		}
	}

	post.Comments = h.extractCommentTree()

	log.InfoWithFields("post extracted", map[string]interface{}{
		"has_title": post.Title != nil,
		"has_body":  post.Description != nil,
		"comments":  reddit.CountComments(post.Comments),
	})

	return post, nil
}

// readTitle reads the post title, nil when the element is absent
func (h *Harvester) readTitle(log logger.Logger) *string {
	el, err := h.queryOne(reddit.TitleSelector)
	if err != nil {
		log.Debug("title not found")
		return nil
	}
	text, err := el.Text()
	if err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(text)
	return &trimmed
}

// readDescription reads the post body as joined paragraph text, nil
// when the body container is absent.
func (h *Harvester) readDescription(log logger.Logger) *string {
	body, err := h.queryOne(reddit.BodySelector)
	if err != nil {
		log.Debug("body not found")
		return nil
	}
	text := joinParagraphs(body)
	return &text
}

// voteStrategy is one way of locating the vote count on a post page
type voteStrategy struct {
	name string
	read func() (string, error)
}

// readVotes tries each layout-specific strategy in order; the first one
// yielding a non-empty value wins. When all fail, any vote value
// observed on the listing during discovery is used, else nil.
func (h *Harvester) readVotes(preview *string, log logger.Logger) *string {
	strategies := []voteStrategy{
		{"info-row", h.votesFromInfoRow},
		{"container-number", h.votesFromContainerNumber},
		{"score-attribute", h.votesFromScoreAttribute},
	}

	for _, s := range strategies {
		value, err := s.read()
		if err != nil || value == "" {
			continue
		}
		log.DebugWithFields("votes read", map[string]interface{}{
			"strategy": s.name,
			"votes":    value,
		})
		return &value
	}

	if preview != nil {
		log.Debug("all vote strategies failed, using listing preview")
	} else {
		log.Debug("all vote strategies failed")
	}
	return preview
}

// votesFromInfoRow targets the info row of the newest post layout
func (h *Harvester) votesFromInfoRow() (string, error) {
	el, err := h.queryOne(reddit.InfoRowVoteSelector)
	if err != nil {
		return "", err
	}
	return textOrNumber(el)
}

// votesFromContainerNumber reads the first number element inside the
// post container.
func (h *Harvester) votesFromContainerNumber() (string, error) {
	container, err := h.queryOne(reddit.PostContainerTag)
	if err != nil {
		return "", err
	}
	el, err := container.Query(reddit.VoteNumberTag)
	if err != nil {
		return "", err
	}
	return textOrNumber(el)
}

// votesFromScoreAttribute falls back to the container's score attribute
func (h *Harvester) votesFromScoreAttribute() (string, error) {
	container, err := h.queryOne(reddit.PostContainerTag)
	if err != nil {
		return "", err
	}
	return container.Attribute(reddit.ScoreAttribute)
}

// textOrNumber prefers the rendered text of a number element and falls
// back to its number attribute.
func textOrNumber(el browser.Element) (string, error) {
	text, err := el.Text()
	if err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text), nil
	}
	return el.Attribute(reddit.NumberAttribute)
}

// joinParagraphs joins the non-empty paragraph texts of an element
func joinParagraphs(el browser.Element) string {
	paragraphs, err := el.QueryAll(reddit.ParagraphTag)
	if err != nil {
		return ""
	}
	var parts []string
	for _, p := range paragraphs {
		text, err := p.Text()
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n")
}
