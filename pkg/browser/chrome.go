package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"redditharvest/pkg/config"
	"redditharvest/pkg/errors"
	"redditharvest/pkg/logger"
)

// Chrome implements Surface on top of a Chrome session driven over the
// DevTools protocol. The auxiliary context is a second tab derived from
// the browser context; while it is open all reads target it.
type Chrome struct {
	allocCancel context.CancelFunc
	baseCtx     context.Context
	baseCancel  context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	settle      time.Duration
	scrollPause time.Duration
	log         logger.Logger
}

// NewChrome launches a Chrome session. The session inherits ctx, so an
// external interruption tears down in-flight protocol calls as well.
func NewChrome(ctx context.Context, cfg *config.BrowserConfig, fetch *config.FetchConfig, log logger.Logger) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
		chromedp.UserAgent(cfg.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	baseCtx, baseCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser process to start now, so a
	// missing or broken Chrome install fails the run before any state
	// is touched.
	if err := chromedp.Run(baseCtx); err != nil {
		baseCancel()
		allocCancel()
		return nil, errors.Wrap(errors.TypeResource, "failed to start browser", err)
	}

	log.Info("browser session started")

	return &Chrome{
		allocCancel: allocCancel,
		baseCtx:     baseCtx,
		baseCancel:  baseCancel,
		settle:      fetch.PageSettle,
		scrollPause: fetch.ScrollPause,
		log:         log,
	}, nil
}

// current returns the context reads should target: the auxiliary tab
// while one is open, the primary tab otherwise.
func (c *Chrome) current() context.Context {
	if c.tabCtx != nil {
		return c.tabCtx
	}
	return c.baseCtx
}

func (c *Chrome) Navigate(url string) error {
	return chromedp.Run(c.current(),
		chromedp.Navigate(url),
		chromedp.Sleep(c.settle),
	)
}

func (c *Chrome) ContentExtent() (int64, error) {
	var height int64
	err := chromedp.Run(c.current(),
		chromedp.Evaluate(`document.body.scrollHeight`, &height),
	)
	return height, err
}

func (c *Chrome) ScrollToBottom() error {
	return chromedp.Run(c.current(),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(c.scrollPause),
	)
}

func (c *Chrome) QueryAll(selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(c.current(),
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{ctx: c.current(), node: n})
	}
	return elements, nil
}

func (c *Chrome) OpenTab() error {
	tabCtx, tabCancel := chromedp.NewContext(c.baseCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return err
	}
	c.tabCtx, c.tabCancel = tabCtx, tabCancel
	return nil
}

func (c *Chrome) CloseTab() error {
	if c.tabCancel == nil {
		return nil
	}
	c.tabCancel()
	c.tabCtx, c.tabCancel = nil, nil
	return nil
}

func (c *Chrome) Shutdown() error {
	_ = c.CloseTab()
	c.baseCancel()
	c.allocCancel()
	c.log.Info("browser session closed")
	return nil
}

// chromeElement wraps one DOM node handle. Reads address the node by its
// protocol node id; a stale id surfaces as an error from the protocol.
type chromeElement struct {
	ctx  context.Context
	node *cdp.Node
}

func (e *chromeElement) Query(selector string) (Element, error) {
	children, err := e.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, ErrNotFound
	}
	return children[0], nil
}

func (e *chromeElement) QueryAll(selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(e.ctx,
		chromedp.Nodes(selector, &nodes,
			chromedp.ByQueryAll,
			chromedp.FromNode(e.node),
			chromedp.AtLeast(0),
		),
	)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{ctx: e.ctx, node: n})
	}
	return elements, nil
}

func (e *chromeElement) Text() (string, error) {
	var text string
	err := chromedp.Run(e.ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID),
	)
	return text, err
}

func (e *chromeElement) Attribute(name string) (string, error) {
	var value string
	var ok bool
	err := chromedp.Run(e.ctx,
		chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &ok, chromedp.ByNodeID),
	)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return value, nil
}
