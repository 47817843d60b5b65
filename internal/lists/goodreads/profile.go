package goodreads

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var profilePathRe = regexp.MustCompile(`^/(?:user/show|review/list|review/list_rss)/(\d+)(?:[-/?]|$)`)

// ParseProfileURL accepts profile, shelf and feed URLs such as
// https://www.goodreads.com/user/show/12345-jane or
// https://www.goodreads.com/review/list/12345?shelf=favorites.
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
	if err != nil || !isGoodreadsHost(u.Hostname()) {
		return lists.SourceConfig{}, false
	}

	m := profilePathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return lists.SourceConfig{}, false
	}

	cfg = lists.SourceConfig{UserID: m[1]}
	if shelf := u.Query().Get("shelf"); shelfRe.MatchString(shelf) {
		cfg.Shelf = shelf
	}
	return cfg, true
}

func isGoodreadsHost(host string) bool {
	host = strings.ToLower(host)
	switch host {
	case "goodreads.com", "www.goodreads.com", "m.goodreads.com":
		return true
	}
	return false
}
