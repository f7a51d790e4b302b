package reddit

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	communityPattern = regexp.MustCompile(`/r/([^/?]+)`)
	flairPattern     = regexp.MustCompile(`flair_name:"([^"]+)"`)
)

// Scope identifies one logical harvesting target: a community plus an
// optional flair filter parsed from the listing URL. It namespaces all
// persisted state for that target and is immutable once parsed.
type Scope struct {
	Community string
	Flair     string
}

// ParseScope derives the collection scope from a listing URL.
// "https://www.reddit.com/r/bangladesh/?f=flair_name%3A%22AskDesh%22"
// yields {Community: "r_bangladesh", Flair: "AskDesh"}. A URL with no
// recognizable community maps to "r_unknown".
func ParseScope(rawURL string) Scope {
	community := "r_unknown"
	if m := communityPattern.FindStringSubmatch(rawURL); m != nil {
		community = "r_" + m[1]
	}
	return Scope{
		Community: community,
		Flair:     extractFlair(rawURL),
	}
}

// extractFlair pulls the flair label out of the f query parameter.
// The parameter carries `flair_name:"Discussion/আলোচনা"`; the label is
// the first segment before the slash.
func extractFlair(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	flairParam := u.Query().Get("f")
	if flairParam == "" {
		return ""
	}
	m := flairPattern.FindStringSubmatch(flairParam)
	if m == nil {
		return ""
	}
	label, _, _ := strings.Cut(m[1], "/")
	return strings.TrimSpace(label)
}

// Name returns the display name for the scope
func (s Scope) Name() string {
	if s.Flair != "" {
		return s.Community + "/" + s.Flair
	}
	return s.Community
}

// Dir returns the on-disk namespace for the scope under the data root
func (s Scope) Dir(root string) string {
	if s.Flair != "" {
		return filepath.Join(root, s.Community, s.Flair)
	}
	return filepath.Join(root, s.Community)
}

// Fingerprint returns the deterministic content hash for a post link,
// used for cross-run deduplication.
func Fingerprint(link string) string {
	sum := md5.Sum([]byte(link))
	return hex.EncodeToString(sum[:])
}
