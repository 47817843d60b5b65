// Package openlibrary reads OpenLibrary reading logs and custom lists, and
// enriches each entry from the work, edition and author records.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mrlokans/shelfsync/internal/lists"
)

const (
	SourceName       = "openlibrary"
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"
	DefaultShelf     = "want-to-read"

	// PageSize is the page size requested from both list endpoints.
	PageSize = 100

	defaultConcurrency = 4
	loggedDateLayout   = "2006/01/02, 15:04:05"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)
	listIDRe   = regexp.MustCompile(`^OL\d+L$`)
)

// ReadingLogShelves are the reading-log buckets every account has.
var ReadingLogShelves = []lists.AvailableList{
	{ID: "want-to-read", Name: "Want to Read", Slug: "want-to-read"},
	{ID: "currently-reading", Name: "Currently Reading", Slug: "currently-reading"},
	{ID: "already-read", Name: "Already Read", Slug: "already-read"},
}

// Options tune a Fetcher. Zero values select defaults.
type Options struct {
	BaseURL         string
	CoversURL       string
	Timeout         time.Duration
	RequestInterval time.Duration
	Concurrency     int
}

// Fetcher reads OpenLibrary lists.
type Fetcher struct {
	httpClient  *http.Client
	baseURL     string
	coversURL   string
	rateLimiter *rateLimiter
	concurrency int
}

// New creates an OpenLibrary fetcher.
func New(opts Options) *Fetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CoversURL == "" {
		opts.CoversURL = DefaultCoversURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		coversURL:   strings.TrimRight(opts.CoversURL, "/"),
		rateLimiter: newRateLimiter(opts.RequestInterval),
		concurrency: opts.Concurrency,
	}
}

func (f *Fetcher) Name() string { return SourceName }

func (f *Fetcher) Info() lists.SourceInfo {
	return lists.SourceInfo{
		Name:                  SourceName,
		DisplayName:           "Open Library",
		Description:           "Open Library reading log shelves and public lists",
		SupportsProfileURL:    true,
		SupportsListDiscovery: true,
		ConfigFields:          []string{"username", "list_type", "shelf", "list_id"},
	}
}

// ValidateConfig checks the addressing fields and then requests a single
// entry of the list.
func (f *Fetcher) ValidateConfig(ctx context.Context, cfg lists.SourceConfig) (res lists.ValidationResult) {
	defer lists.RecoverValidate(SourceName, &res)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Invalid(ferr)
	}

	var err error
	if cfg.ListType == lists.ListTypeCustom {
		var resp seedsResponse
		err = f.getJSON(ctx, seedsPath(cfg, 1, 0), &resp)
		if err == nil && resp.Error != "" {
			return lists.Invalid(lists.PrivateError("Open Library list %s: %s", cfg.ListID, resp.Error))
		}
	} else {
		var resp readingLogResponse
		err = f.getJSON(ctx, readingLogPath(cfg, 1, 1), &resp)
		if err == nil && resp.Error != "" {
			return lists.Invalid(lists.PrivateError("Open Library reading log for %s: %s", cfg.Username, resp.Error))
		}
	}
	if err != nil {
		return lists.Invalid(classify(err, cfg))
	}
	return lists.Valid()
}

// FetchBooks returns one page of the reading-log shelf or custom list.
func (f *Fetcher) FetchBooks(ctx context.Context, cfg lists.SourceConfig, page int) (res lists.FetchResult) {
	defer lists.RecoverFetch(SourceName, &res)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Failed(ferr)
	}
	if page < 1 {
		page = 1
	}

	if cfg.ListType == lists.ListTypeCustom {
		return f.fetchCustomList(ctx, cfg, page)
	}
	return f.fetchReadingLog(ctx, cfg, page)
}

func (f *Fetcher) fetchReadingLog(ctx context.Context, cfg lists.SourceConfig, page int) lists.FetchResult {
	var resp readingLogResponse
	if err := f.getJSON(ctx, readingLogPath(cfg, page, PageSize), &resp); err != nil {
		return lists.Failed(classify(err, cfg))
	}
	if resp.Error != "" {
		return lists.Failed(lists.PrivateError("Open Library reading log for %s: %s", cfg.Username, resp.Error))
	}

	items := make([]item, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		it := item{
			workID:      keyID(e.Work.Key),
			editionID:   keyID(e.LoggedEdition),
			title:       e.Work.Title,
			authors:     e.Work.AuthorNames,
			authorKeys:  e.Work.AuthorKeys,
			publishYear: e.Work.FirstPublishYear,
			coverID:     e.Work.CoverID,
		}
		if it.editionID == "" {
			it.editionID = keyID(e.Work.CoverEditionKey)
		}
		if t, err := time.Parse(loggedDateLayout, e.LoggedDate); err == nil {
			it.addedAt = &t
		}
		items = append(items, it)
	}

	books := f.enrichAll(ctx, items)

	totalPages := (resp.NumFound + PageSize - 1) / PageSize
	log.Printf("OpenLibrary: %s/%s page %d of %d: %d books", cfg.Username, cfg.Shelf, page, totalPages, len(books))

	if len(resp.Entries) == 0 || page >= totalPages {
		return lists.Done(books)
	}
	return lists.More(books, page+1)
}

func (f *Fetcher) fetchCustomList(ctx context.Context, cfg lists.SourceConfig, page int) lists.FetchResult {
	var resp seedsResponse
	if err := f.getJSON(ctx, seedsPath(cfg, PageSize, (page-1)*PageSize), &resp); err != nil {
		return lists.Failed(classify(err, cfg))
	}
	if resp.Error != "" {
		return lists.Failed(lists.PrivateError("Open Library list %s: %s", cfg.ListID, resp.Error))
	}

	items := make([]item, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		it := item{title: e.Title}
		switch {
		case strings.HasPrefix(e.URL, "/works/"):
			it.workID = keyID(e.URL)
		case strings.HasPrefix(e.URL, "/books/"):
			it.editionID = keyID(e.URL)
		default:
			// Authors and subjects can be list seeds too.
			continue
		}
		items = append(items, it)
	}

	books := f.enrichAll(ctx, items)
	log.Printf("OpenLibrary: %s list %s page %d: %d books", cfg.Username, cfg.ListID, page, len(books))

	// The seeds endpoint reports no total, so a full page is taken to mean
	// there may be more.
	if len(resp.Entries) < PageSize {
		return lists.Done(books)
	}
	return lists.More(books, page+1)
}

func normalizeConfig(cfg lists.SourceConfig) (lists.SourceConfig, *lists.FetchError) {
	cfg.Username = strings.TrimSpace(cfg.Username)
	if cfg.Username == "" {
		return cfg, lists.ConfigError("Open Library username is required")
	}
	if !usernameRe.MatchString(cfg.Username) {
		return cfg, lists.ConfigError("invalid Open Library username %q", cfg.Username)
	}

	cfg.ListType = strings.TrimSpace(cfg.ListType)
	cfg.ListID = strings.TrimSpace(cfg.ListID)
	cfg.Shelf = strings.TrimSpace(cfg.Shelf)
	if cfg.ListType == "" {
		cfg.ListType = lists.ListTypeReadingLog
		if cfg.ListID != "" {
			cfg.ListType = lists.ListTypeCustom
		}
	}

	switch cfg.ListType {
	case lists.ListTypeReadingLog:
		if cfg.Shelf == "" {
			cfg.Shelf = DefaultShelf
		}
		if !isReadingLogShelf(cfg.Shelf) {
			return cfg, lists.ConfigError("unknown Open Library reading log shelf %q", cfg.Shelf)
		}
	case lists.ListTypeCustom:
		if !listIDRe.MatchString(cfg.ListID) {
			return cfg, lists.ConfigError("Open Library list ID must look like OL123L, got %q", cfg.ListID)
		}
	default:
		return cfg, lists.ConfigError("unknown Open Library list type %q", cfg.ListType)
	}
	return cfg, nil
}

func isReadingLogShelf(id string) bool {
	for _, s := range ReadingLogShelves {
		if s.ID == id {
			return true
		}
	}
	return false
}

func readingLogPath(cfg lists.SourceConfig, page, limit int) string {
	return fmt.Sprintf("/people/%s/books/%s.json?page=%d&limit=%d", url.PathEscape(cfg.Username), cfg.Shelf, page, limit)
}

func seedsPath(cfg lists.SourceConfig, limit, offset int) string {
	return fmt.Sprintf("/people/%s/lists/%s/seeds.json?limit=%d&offset=%d", url.PathEscape(cfg.Username), cfg.ListID, limit, offset)
}

func classify(err error, cfg lists.SourceConfig) *lists.FetchError {
	var se *statusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusNotFound:
			if cfg.ListType == lists.ListTypeCustom {
				return lists.NotFoundError("Open Library list %s for %s does not exist", cfg.ListID, cfg.Username)
			}
			return lists.NotFoundError("Open Library user %s does not exist", cfg.Username)
		case http.StatusForbidden, http.StatusUnauthorized:
			return lists.PrivateError("Open Library reading log for %s is private", cfg.Username)
		default:
			return lists.UnreachableError("Open Library returned HTTP %d", se.StatusCode)
		}
	}
	if errors.Is(err, errMalformed) {
		return lists.MalformedError("failed to parse Open Library response: %v", err)
	}
	return lists.UnreachableError("failed to reach Open Library: %v", err)
}
