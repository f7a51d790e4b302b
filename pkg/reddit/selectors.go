package reddit

// Selectors for the rendered page. Reddit ships several layouts, so the
// vote count in particular is read through an ordered list of fallbacks.
const (
	// Listing page
	PostContainerTag = "shreddit-post"
	PostLinkSelector = `a[slot="full-post-link"]`

	// Post page
	TitleSelector = `h1[slot="title"]`
	BodySelector  = `div[slot="text-body"]`
	ParagraphTag  = "p"

	// Vote count, newest layout first
	InfoRowVoteSelector = `div[data-testid="seeker-post-info-row"] faceplate-number:first-of-type`
	VoteNumberTag       = "faceplate-number"

	// Comment tree
	CommentTreeTag       = "shreddit-comment-tree"
	CommentChildSelector = ":scope > shreddit-comment"
	CommentBodySelector  = `div[slot="comment"]`

	// Attributes
	LinkAttribute   = "href"
	NumberAttribute = "number"
	ScoreAttribute  = "score"
)
