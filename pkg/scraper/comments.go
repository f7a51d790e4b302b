package scraper

import (
	stderrors "errors"
	"strings"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/reddit"
)

// maxCommentDepth bounds the recursive descent. Real threads never get
// near it; it guards against a malformed or cyclic node graph reported
// by the page.
const maxCommentDepth = 64

// extractCommentTree materializes the post's reply structure as an
// ordered tree. A missing or unlocatable tree yields an empty slice:
// absence of comments is not an error.
func (h *Harvester) extractCommentTree() []reddit.Comment {
	tree, err := h.queryOne(reddit.CommentTreeTag)
	if err != nil {
		return []reddit.Comment{}
	}

	roots, err := tree.QueryAll(reddit.CommentChildSelector)
	if err != nil {
		return []reddit.Comment{}
	}

	comments := make([]reddit.Comment, 0, len(roots))
	for _, el := range roots {
		if comment, ok := h.extractComment(el, 0); ok {
			comments = append(comments, comment)
		}
	}
	return comments
}

// extractComment reads one comment node and recurses into its direct
// children. Text prefers paragraph-level content, falling back to the
// node's raw text. A node none of whose parts can be read at all is
// dropped from its parent's child list; its siblings are unaffected.
func (h *Harvester) extractComment(el browser.Element, depth int) (reddit.Comment, bool) {
	if depth >= maxCommentDepth {
		return reddit.Comment{}, false
	}

	comment := reddit.Comment{Replies: []reddit.Comment{}}
	failed := 0

	if body, err := el.Query(reddit.CommentBodySelector); err == nil {
		text := joinParagraphs(body)
		if text == "" {
			if raw, rerr := body.Text(); rerr == nil {
				text = strings.TrimSpace(raw)
			}
		}
		comment.Text = &text
	} else if !stderrors.Is(err, browser.ErrNotFound) {
		failed++
	}

	if num, err := el.Query(reddit.VoteNumberTag); err == nil {
		comment.Votes = commentVotes(num)
	} else if !stderrors.Is(err, browser.ErrNotFound) {
		failed++
	}

	if children, err := el.QueryAll(reddit.CommentChildSelector); err == nil {
		for _, childEl := range children {
			if child, ok := h.extractComment(childEl, depth+1); ok {
				comment.Replies = append(comment.Replies, child)
			}
		}
	} else {
		failed++
	}

	// Every read errored: the node handle is unreadable, drop it.
	if failed == 3 {
		return reddit.Comment{}, false
	}

	return comment, true
}

// commentVotes prefers the number attribute of a vote element and falls
// back to its rendered text.
func commentVotes(el browser.Element) *string {
	if value, err := el.Attribute(reddit.NumberAttribute); err == nil && strings.TrimSpace(value) != "" {
		trimmed := strings.TrimSpace(value)
		return &trimmed
	}
	if text, err := el.Text(); err == nil {
		trimmed := strings.TrimSpace(text)
		return &trimmed
	}
	return nil
}
