package reddit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		community string
		flair     string
	}{
		{
			name:      "community with encoded flair filter",
			url:       `https://www.reddit.com/r/bangladesh/?f=flair_name%3A%22AskDesh%22`,
			community: "r_bangladesh",
			flair:     "AskDesh",
		},
		{
			name:      "bilingual flair keeps the first segment",
			url:       `https://www.reddit.com/r/bangladesh/?f=flair_name%3A%22Discussion%2F%E0%A6%86%E0%A6%B2%E0%A7%8B%E0%A6%9A%E0%A6%A8%E0%A6%BE%22`,
			community: "r_bangladesh",
			flair:     "Discussion",
		},
		{
			name:      "plain community listing",
			url:       "https://www.reddit.com/r/python/top/",
			community: "r_python",
			flair:     "",
		},
		{
			name:      "no community in url",
			url:       "https://www.reddit.com/home",
			community: "r_unknown",
			flair:     "",
		},
		{
			name:      "malformed flair parameter ignored",
			url:       "https://www.reddit.com/r/python/?f=somethingelse",
			community: "r_python",
			flair:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := ParseScope(tt.url)
			assert.Equal(t, tt.community, scope.Community)
			assert.Equal(t, tt.flair, scope.Flair)
		})
	}
}

func TestScopeNameAndDir(t *testing.T) {
	flaired := Scope{Community: "r_bangladesh", Flair: "AskDesh"}
	assert.Equal(t, "r_bangladesh/AskDesh", flaired.Name())
	assert.Equal(t, filepath.Join("data", "r_bangladesh", "AskDesh"), flaired.Dir("data"))

	plain := Scope{Community: "r_python"}
	assert.Equal(t, "r_python", plain.Name())
	assert.Equal(t, filepath.Join("data", "r_python"), plain.Dir("data"))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Fingerprint("hello"))
	assert.Equal(t, Fingerprint("https://a"), Fingerprint("https://a"))
	assert.NotEqual(t, Fingerprint("https://a"), Fingerprint("https://b"))
	assert.Len(t, Fingerprint(""), 32)
}

func TestCountComments(t *testing.T) {
	assert.Equal(t, 0, CountComments(nil))
	assert.Equal(t, 0, CountComments([]Comment{}))

	tree := []Comment{
		{Replies: []Comment{
			{Replies: []Comment{{}}},
			{},
		}},
		{},
	}
	assert.Equal(t, 5, CountComments(tree))
}
