package browser

import "errors"

// ErrNotFound is returned by element queries when no match exists in the
// current DOM. Callers treat it as field absence, never as a run failure.
var ErrNotFound = errors.New("browser: element not found")

// Element is a handle to one materialized DOM node. Handles can go stale
// while the page re-renders; every read returns an error in that case and
// callers are expected to drop the element and move on.
type Element interface {
	// Query returns the first descendant matching the selector,
	// or ErrNotFound.
	Query(selector string) (Element, error)
	// QueryAll returns all descendants matching the selector, in
	// document order. An empty result is not an error.
	QueryAll(selector string) ([]Element, error)
	// Text returns the rendered text content of the element.
	Text() (string, error)
	// Attribute returns the named attribute, or "" when unset.
	Attribute(name string) (string, error)
}

// Surface is the rendering capability the harvester drives: it loads
// dynamic pages, exposes their DOM state and simulates scrolling. One
// surface session is used for an entire run, strictly sequentially.
type Surface interface {
	// Navigate loads the URL in the current context and waits a fixed
	// settle pause for the initial render.
	Navigate(url string) error
	// ContentExtent reports the current scrollable height of the page,
	// used to detect whether scrolling revealed new content.
	ContentExtent() (int64, error)
	// ScrollToBottom scrolls the current context to the bottom and
	// waits a fixed pause for lazily rendered content to materialize.
	ScrollToBottom() error
	// QueryAll returns all elements matching the selector at page level.
	QueryAll(selector string) ([]Element, error)
	// OpenTab opens an auxiliary context and makes it current.
	OpenTab() error
	// CloseTab closes the auxiliary context, restoring the prior one.
	// Closing when no auxiliary context is open is a no-op.
	CloseTab() error
	// Shutdown releases the browser session. Safe to call once per run,
	// on every exit path.
	Shutdown() error
}
