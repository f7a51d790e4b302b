// Package reddit holds the domain model for harvested content: the post
// and comment shapes persisted on disk, the collection scope parsed from
// a listing URL, and the page selectors the extractor reads.
package reddit

import "time"

// Post is one captured unit of content with its full reply tree.
// Field order is the on-disk serialization order. Title, Description and
// Votes are nullable: the page is not guaranteed to render them, and a
// missing field is recorded as JSON null rather than failing the post.
// Votes stays free-form text exactly as the page reports it.
type Post struct {
	URL         string    `json:"url"`
	Hash        string    `json:"hash"`
	ScrapedAt   time.Time `json:"scraped_at"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Votes       *string   `json:"votes"`
	Comments    []Comment `json:"comments"`
	ID          int       `json:"id"`
}

// Comment is one node in a post's reply tree. It has no identity of its
// own; it is addressed by position. Replies is always non-nil: a comment
// with no surviving children serializes as an empty list, not null.
type Comment struct {
	Text    *string   `json:"text"`
	Votes   *string   `json:"votes"`
	Replies []Comment `json:"replies"`
}

// Link is one discovered post location, with any score value observed on
// the listing carried along as an extractor fallback.
type Link struct {
	URL          string
	Hash         string
	VotesPreview *string
}

// CountComments returns the total number of comments including nested replies
func CountComments(comments []Comment) int {
	count := len(comments)
	for _, c := range comments {
		count += CountComments(c.Replies)
	}
	return count
}
