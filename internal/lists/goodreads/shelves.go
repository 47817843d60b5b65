package goodreads

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mrlokans/shelfsync/internal/lists"
)

var shelfCountRe = regexp.MustCompile(`\s*\(\s*[\d,]+\s*\)\s*$`)

// BuiltinShelves exist for every Goodreads account.
var BuiltinShelves = []lists.AvailableList{
	{ID: "to-read", Name: "Want to Read", Slug: "to-read"},
	{ID: "currently-reading", Name: "Currently Reading", Slug: "currently-reading"},
	{ID: "read", Name: "Read", Slug: "read"},
}

// AvailableLists returns the built-in shelves followed by the user's custom
// shelves scraped from the profile's shelf list. Discovery failures are
// logged and only the built-ins are returned.
func (f *Fetcher) AvailableLists(ctx context.Context, cfg lists.SourceConfig) (result []lists.AvailableList) {
	defer lists.RecoverLists(SourceName, &result, BuiltinShelves)

	result = append([]lists.AvailableList(nil), BuiltinShelves...)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return result
	}

	custom, err := f.discoverShelves(ctx, cfg.UserID)
	if err != nil {
		log.Printf("Goodreads: shelf discovery for user %s failed: %v", cfg.UserID, err)
		return result
	}
	return append(result, custom...)
}

func (f *Fetcher) discoverShelves(ctx context.Context, userID string) ([]lists.AvailableList, error) {
	body, status, err := f.get(ctx, fmt.Sprintf("%s/review/list/%s", f.baseURL, url.PathEscape(userID)))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", status)
	}
	return parseShelfLinks(body)
}

func parseShelfLinks(body []byte) ([]lists.AvailableList, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse profile page: %w", err)
	}

	seen := make(map[string]bool)
	for _, s := range BuiltinShelves {
		seen[s.ID] = true
	}

	var shelves []lists.AvailableList
	doc.Find(`a[href*="shelf="]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/review/list/") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		id := u.Query().Get("shelf")
		if !shelfRe.MatchString(id) || seen[strings.ToLower(id)] {
			return
		}

		name := lists.CollapseWhitespace(lists.DecodeEntities(a.Text()))
		name = strings.TrimSpace(shelfCountRe.ReplaceAllString(name, ""))
		if name == "" {
			name = id
		}

		seen[strings.ToLower(id)] = true
		shelves = append(shelves, lists.AvailableList{ID: id, Name: name, Slug: id})
	})

	return shelves, nil
}
