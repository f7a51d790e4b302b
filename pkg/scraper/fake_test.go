package scraper

import (
	"errors"
	"fmt"

	"redditharvest/pkg/browser"
	"redditharvest/pkg/reddit"
)

var errStale = errors.New("stale element")

// fakeElement is an in-memory DOM node for exercising the extraction
// logic. When fail is set, every read errors, simulating a handle that
// went stale mid-render.
type fakeElement struct {
	text     string
	attrs    map[string]string
	children map[string][]*fakeElement
	fail     bool
}

func (e *fakeElement) Query(selector string) (browser.Element, error) {
	if e.fail {
		return nil, errStale
	}
	els := e.children[selector]
	if len(els) == 0 {
		return nil, browser.ErrNotFound
	}
	return els[0], nil
}

func (e *fakeElement) QueryAll(selector string) ([]browser.Element, error) {
	if e.fail {
		return nil, errStale
	}
	els := e.children[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (e *fakeElement) Text() (string, error) {
	if e.fail {
		return "", errStale
	}
	return e.text, nil
}

func (e *fakeElement) Attribute(name string) (string, error) {
	if e.fail {
		return "", errStale
	}
	return e.attrs[name], nil
}

// fakePage is the DOM state of one URL
type fakePage struct {
	elements map[string][]*fakeElement
	extent   int64
	onScroll func(p *fakePage)
}

// fakeSurface is an in-memory Surface over a set of fake pages
type fakeSurface struct {
	pages  map[string]*fakePage
	navErr map[string]error

	cur      *fakePage
	tabStack []*fakePage

	scrolls   int
	openTabs  int
	closeTabs int
	shutdowns int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		pages:  make(map[string]*fakePage),
		navErr: make(map[string]error),
	}
}

func (s *fakeSurface) Navigate(url string) error {
	if err := s.navErr[url]; err != nil {
		return err
	}
	page, ok := s.pages[url]
	if !ok {
		return fmt.Errorf("no such page: %s", url)
	}
	s.cur = page
	return nil
}

func (s *fakeSurface) ContentExtent() (int64, error) {
	return s.cur.extent, nil
}

func (s *fakeSurface) ScrollToBottom() error {
	s.scrolls++
	if s.cur.onScroll != nil {
		s.cur.onScroll(s.cur)
	}
	return nil
}

func (s *fakeSurface) QueryAll(selector string) ([]browser.Element, error) {
	els := s.cur.elements[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (s *fakeSurface) OpenTab() error {
	s.openTabs++
	s.tabStack = append(s.tabStack, s.cur)
	return nil
}

func (s *fakeSurface) CloseTab() error {
	s.closeTabs++
	if n := len(s.tabStack); n > 0 {
		s.cur = s.tabStack[n-1]
		s.tabStack = s.tabStack[:n-1]
	}
	return nil
}

func (s *fakeSurface) Shutdown() error {
	s.shutdowns++
	return nil
}

// postContainer builds a listing container whose canonical link
// resolves to url.
func postContainer(url string) *fakeElement {
	return &fakeElement{
		children: map[string][]*fakeElement{
			reddit.PostLinkSelector: {
				{attrs: map[string]string{reddit.LinkAttribute: url}},
			},
		},
	}
}

// paragraphs builds the <p> children for a text body
func paragraphs(texts ...string) []*fakeElement {
	out := make([]*fakeElement, 0, len(texts))
	for _, t := range texts {
		out = append(out, &fakeElement{text: t})
	}
	return out
}

// commentNode builds one comment element with the given body text,
// vote value and child comments.
func commentNode(text, votes string, replies ...*fakeElement) *fakeElement {
	children := map[string][]*fakeElement{
		reddit.CommentBodySelector: {
			{children: map[string][]*fakeElement{
				reddit.ParagraphTag: paragraphs(text),
			}},
		},
		reddit.CommentChildSelector: replies,
	}
	if votes != "" {
		children[reddit.VoteNumberTag] = []*fakeElement{
			{attrs: map[string]string{reddit.NumberAttribute: votes}},
		}
	}
	return &fakeElement{children: children}
}
