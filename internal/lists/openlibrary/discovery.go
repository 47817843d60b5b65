package openlibrary

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var (
	peoplePathRe = regexp.MustCompile(`^/people/([A-Za-z0-9_.-]{1,64})(?:/books/(want-to-read|currently-reading|already-read)(?:\.json)?)?/?$`)
	listPathRe   = regexp.MustCompile(`^/people/([A-Za-z0-9_.-]{1,64})/lists/(OL\d+L)(?:/[^/]*)?(?:\.json)?/?$`)
)

// AvailableLists returns the reading-log shelves followed by the user's
// public lists. A failed lookup yields only the shelves.
func (f *Fetcher) AvailableLists(ctx context.Context, cfg lists.SourceConfig) (result []lists.AvailableList) {
	defer lists.RecoverLists(SourceName, &result, ReadingLogShelves)

	result = append([]lists.AvailableList(nil), ReadingLogShelves...)

	username := strings.TrimSpace(cfg.Username)
	if !usernameRe.MatchString(username) {
		return result
	}

	var resp userListsResponse
	if err := f.getJSON(ctx, fmt.Sprintf("/people/%s/lists.json?limit=%d", url.PathEscape(username), PageSize), &resp); err != nil {
		log.Printf("OpenLibrary: list discovery for %s failed: %v", username, err)
		return result
	}

	seen := make(map[string]bool)
	for _, e := range resp.Entries {
		id := keyID(e.URL)
		if !listIDRe.MatchString(id) || seen[id] {
			continue
		}
		seen[id] = true

		name := lists.CleanText(e.Name)
		if name == "" {
			name = id
		}
		slug := ""
		if e.FullURL != "" {
			if tail := keyID(e.FullURL); tail != id {
				slug = tail
			}
		}
		result = append(result, lists.AvailableList{ID: id, Name: name, Slug: slug})
	}
	return result
}

// ParseProfileURL accepts people, reading-log and list URLs such as
// https://openlibrary.org/people/jane/books/already-read or
// https://openlibrary.org/people/jane/lists/OL97L/Favorites.
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
	case "openlibrary.org", "www.openlibrary.org":
	default:
		return lists.SourceConfig{}, false
	}

	if m := listPathRe.FindStringSubmatch(u.Path); m != nil {
		return lists.SourceConfig{Username: m[1], ListType: lists.ListTypeCustom, ListID: m[2]}, true
	}
	if m := peoplePathRe.FindStringSubmatch(u.Path); m != nil {
		cfg = lists.SourceConfig{Username: m[1], ListType: lists.ListTypeReadingLog, Shelf: m[2]}
		if cfg.Shelf == "" {
			cfg.Shelf = DefaultShelf
		}
		return cfg, true
	}
	return lists.SourceConfig{}, false
}
