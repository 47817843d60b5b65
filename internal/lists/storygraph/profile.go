package storygraph

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var profilePathRe = regexp.MustCompile(`^/(profile|to-read|currently-reading|books-read)/([A-Za-z0-9_.-]{1,50})/?$`)

// ParseProfileURL accepts profile and shelf URLs, e.g.
// https://app.thestorygraph.com/profile/jane or
// https://app.thestorygraph.com/books-read/jane.
func (f *Fetcher) ParseProfileURL(rawURL string) (cfg lists.SourceConfig, ok bool) {
	defer lists.RecoverParse(SourceName, &cfg, &ok)

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return lists.SourceConfig{}, false
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return lists.SourceConfig{}, false
	}
	switch strings.ToLower(u.Hostname()) {
	case "app.thestorygraph.com", "thestorygraph.com", "www.thestorygraph.com":
	default:
		return lists.SourceConfig{}, false
	}

	m := profilePathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return lists.SourceConfig{}, false
	}

	cfg = lists.SourceConfig{Username: m[2]}
	if m[1] != "profile" {
		cfg.Shelf = m[1]
	}
	return cfg, true
}
