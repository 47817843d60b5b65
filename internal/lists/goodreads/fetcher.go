// Package goodreads reads Goodreads shelves through their public RSS feed.
package goodreads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/shelfsync/internal/lists"
)

const (
	SourceName     = "goodreads"
	DefaultBaseURL = "https://www.goodreads.com"
	DefaultShelf   = "to-read"

	// PageSize is the number of items Goodreads puts in one feed page.
	PageSize = 100

	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20
	userAgent      = "ShelfSync/1.0 (+https://github.com/mrlokans/shelfsync)"
)

var (
	shelfRe  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	userIDRe = regexp.MustCompile(`^(\d+)(?:-[A-Za-z0-9_-]*)?$`)
)

// Fetcher reads Goodreads shelves.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Goodreads fetcher. An empty baseURL selects the public site.
func New(baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (f *Fetcher) Name() string { return SourceName }

func (f *Fetcher) Info() lists.SourceInfo {
	return lists.SourceInfo{
		Name:                  SourceName,
		DisplayName:           "Goodreads",
		Description:           "Public Goodreads shelves via the shelf RSS feed",
		SupportsProfileURL:    true,
		SupportsListDiscovery: true,
		ConfigFields:          []string{"user_id", "shelf"},
	}
}

// ValidateConfig checks the user id and shelf, then fetches the first feed
// page to confirm the shelf is readable.
func (f *Fetcher) ValidateConfig(ctx context.Context, cfg lists.SourceConfig) (res lists.ValidationResult) {
	defer lists.RecoverValidate(SourceName, &res)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Invalid(ferr)
	}

	if _, ferr := f.fetchFeed(ctx, cfg, 1); ferr != nil {
		return lists.Invalid(ferr)
	}
	return lists.Valid()
}

// FetchBooks returns one feed page. A full page means more may follow.
func (f *Fetcher) FetchBooks(ctx context.Context, cfg lists.SourceConfig, page int) (res lists.FetchResult) {
	defer lists.RecoverFetch(SourceName, &res)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Failed(ferr)
	}
	if page < 1 {
		page = 1
	}

	items, ferr := f.fetchFeed(ctx, cfg, page)
	if ferr != nil {
		return lists.Failed(ferr)
	}

	books := make([]lists.ListBook, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		book, ok := f.toListBook(item)
		if !ok || seen[book.Hash] {
			continue
		}
		seen[book.Hash] = true
		books = append(books, book)
	}

	log.Printf("Goodreads: user %s shelf %s page %d: %d items", cfg.UserID, cfg.Shelf, page, len(items))

	if len(items) == 0 || len(items) < PageSize {
		return lists.Done(books)
	}
	return lists.More(books, page+1)
}

func normalizeConfig(cfg lists.SourceConfig) (lists.SourceConfig, *lists.FetchError) {
	id := strings.TrimSpace(cfg.UserID)
	if id == "" {
		return cfg, lists.ConfigError("Goodreads user ID is required")
	}
	m := userIDRe.FindStringSubmatch(id)
	if m == nil {
		return cfg, lists.ConfigError("Goodreads user ID must be numeric, got %q", id)
	}
	cfg.UserID = m[1]

	cfg.Shelf = strings.TrimSpace(cfg.Shelf)
	if cfg.Shelf == "" {
		cfg.Shelf = DefaultShelf
	}
	if !shelfRe.MatchString(cfg.Shelf) {
		return cfg, lists.ConfigError("invalid Goodreads shelf name %q", cfg.Shelf)
	}
	return cfg, nil
}

func (f *Fetcher) feedURL(cfg lists.SourceConfig, page int) string {
	q := url.Values{}
	q.Set("shelf", cfg.Shelf)
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s/review/list_rss/%s?%s", f.baseURL, url.PathEscape(cfg.UserID), q.Encode())
}

func (f *Fetcher) fetchFeed(ctx context.Context, cfg lists.SourceConfig, page int) ([]feedItem, *lists.FetchError) {
	body, status, err := f.get(ctx, f.feedURL(cfg, page))
	if err != nil {
		return nil, lists.UnreachableError("failed to reach Goodreads: %v", err)
	}

	switch {
	case status == http.StatusNotFound:
		return nil, lists.NotFoundError("Goodreads user %s or shelf %q does not exist", cfg.UserID, cfg.Shelf)
	case status == http.StatusForbidden || status == http.StatusUnauthorized:
		return nil, lists.PrivateError("Goodreads profile %s is private", cfg.UserID)
	case status != http.StatusOK:
		return nil, lists.UnreachableError("Goodreads returned HTTP %d", status)
	}

	if !looksLikeFeed(body) {
		if isSignInPage(body) {
			return nil, lists.PrivateError("Goodreads profile %s is private or requires sign-in", cfg.UserID)
		}
		return nil, lists.MalformedError("Goodreads did not return an RSS feed")
	}

	items, err := parseFeed(body)
	if err != nil {
		return nil, lists.MalformedError("failed to parse Goodreads feed: %v", err)
	}
	return items, nil
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("request timed out: %w", err)
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
