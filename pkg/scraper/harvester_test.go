package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redditharvest/pkg/config"
	"redditharvest/pkg/logger"
	"redditharvest/pkg/reddit"
)

const listingURL = "https://www.reddit.com/r/testing/"

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.DataDir = t.TempDir()
	cfg.Fetch.ItemDelay = time.Millisecond
	cfg.Fetch.CommentScrollPasses = 1
	return cfg
}

func closedGate() <-chan struct{} {
	gate := make(chan struct{})
	close(gate)
	return gate
}

// runSurface builds a fake surface with the listing open and one
// extractable page per post URL.
func runSurface(urls ...string) *fakeSurface {
	s := newFakeSurface()
	s.pages[listingURL] = listingPage(urls...)
	for _, u := range urls {
		s.pages[u] = &fakePage{
			elements: map[string][]*fakeElement{
				reddit.TitleSelector: {{text: "Post at " + u}},
			},
		}
	}
	return s
}

func TestRunHarvestsAndPersistsEveryPost(t *testing.T) {
	urls := []string{"https://reddit.test/p/a", "https://reddit.test/p/b"}
	s := runSurface(urls...)
	cfg := runConfig(t)

	h := New(s, cfg, logger.NewNop(), closedGate())
	summary, err := h.Run(context.Background(), listingURL, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.TotalOnDisk)
	assert.Equal(t, 1, s.shutdowns)

	dir := filepath.Join(cfg.Output.DataDir, "r_testing")
	data, err := os.ReadFile(filepath.Join(dir, "1.json"))
	require.NoError(t, err)

	var post reddit.Post
	require.NoError(t, json.Unmarshal(data, &post))
	assert.Equal(t, 1, post.ID)
	assert.Equal(t, urls[0], post.URL)
	assert.Equal(t, reddit.Fingerprint(urls[0]), post.Hash)
	require.NotNil(t, post.Title)
	assert.Equal(t, "Post at "+urls[0], *post.Title)

	_, err = os.Stat(filepath.Join(dir, "2.json"))
	assert.NoError(t, err)
}

func TestRunIsolatesPerPostFailures(t *testing.T) {
	urls := []string{"https://reddit.test/p/a", "https://reddit.test/p/b"}
	s := runSurface(urls...)
	s.navErr[urls[0]] = errors.New("tab crashed")
	cfg := runConfig(t)

	h := New(s, cfg, logger.NewNop(), closedGate())
	summary, err := h.Run(context.Background(), listingURL, 2)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.TotalOnDisk)

	// The failed post never consumed an id
	dir := filepath.Join(cfg.Output.DataDir, "r_testing")
	data, err := os.ReadFile(filepath.Join(dir, "1.json"))
	require.NoError(t, err)

	var post reddit.Post
	require.NoError(t, json.Unmarshal(data, &post))
	assert.Equal(t, urls[1], post.URL)
}

func TestRunIdsStayMonotonicAcrossRuns(t *testing.T) {
	first := "https://reddit.test/p/a"
	second := "https://reddit.test/p/b"
	cfg := runConfig(t)

	s1 := runSurface(first)
	h1 := New(s1, cfg, logger.NewNop(), closedGate())
	summary, err := h1.Run(context.Background(), listingURL, 5)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded)

	// Second run sees the old post plus one new one
	s2 := runSurface(first, second)
	h2 := New(s2, cfg, logger.NewNop(), closedGate())
	summary, err = h2.Run(context.Background(), listingURL, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded, "only the new post is extracted")
	assert.Equal(t, 2, summary.TotalOnDisk)
	assert.Equal(t, 1, s2.openTabs, "previously captured post is never reopened")

	dir := filepath.Join(cfg.Output.DataDir, "r_testing")
	data, err := os.ReadFile(filepath.Join(dir, "2.json"))
	require.NoError(t, err)

	var post reddit.Post
	require.NoError(t, json.Unmarshal(data, &post))
	assert.Equal(t, 2, post.ID)
	assert.Equal(t, second, post.URL)
}

func TestRunStopsAtGateOnCancellation(t *testing.T) {
	s := runSurface("https://reddit.test/p/a")
	cfg := runConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Gate never opens; cancellation must release the run
	h := New(s, cfg, logger.NewNop(), make(chan struct{}))
	summary, err := h.Run(ctx, listingURL, 1)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, s.shutdowns, "browser released on every exit path")
}

func TestRunListingNavigateFailureIsFatal(t *testing.T) {
	s := newFakeSurface()
	s.navErr[listingURL] = errors.New("dns failure")
	cfg := runConfig(t)

	h := New(s, cfg, logger.NewNop(), closedGate())
	_, err := h.Run(context.Background(), listingURL, 1)

	require.Error(t, err)
	assert.Equal(t, 1, s.shutdowns)
}
