// Package storygraph scrapes public StoryGraph shelves. StoryGraph sits
// behind a bot challenge, so every page is rendered through a
// FlareSolverr-compatible proxy.
package storygraph

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mrlokans/shelfsync/internal/flaresolverr"
	"github.com/mrlokans/shelfsync/internal/lists"
)

const (
	SourceName     = "storygraph"
	DefaultBaseURL = "https://app.thestorygraph.com"
	DefaultShelf   = "to-read"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,50}$`)

// Shelves are the shelf pages StoryGraph exposes per user.
var Shelves = []lists.AvailableList{
	{ID: "to-read", Name: "To Read", Slug: "to-read"},
	{ID: "currently-reading", Name: "Currently Reading", Slug: "currently-reading"},
	{ID: "books-read", Name: "Read", Slug: "books-read"},
}

// Renderer loads pages through a browser proxy.
type Renderer interface {
	Configured() bool
	Health(ctx context.Context) error
	Get(ctx context.Context, r flaresolverr.RenderRequest) (*flaresolverr.Solution, error)
}

// Fetcher reads StoryGraph shelves.
type Fetcher struct {
	proxy   Renderer
	baseURL string
}

// New creates a StoryGraph fetcher rendering through proxy.
func New(proxy Renderer, baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{proxy: proxy, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *Fetcher) Name() string { return SourceName }

func (f *Fetcher) Info() lists.SourceInfo {
	return lists.SourceInfo{
		Name:                  SourceName,
		DisplayName:           "The StoryGraph",
		Description:           "Public StoryGraph shelves, rendered through FlareSolverr",
		RequiresProxy:         true,
		SupportsProfileURL:    true,
		SupportsListDiscovery: true,
		ConfigFields:          []string{"username", "shelf"},
	}
}

// ValidateConfig checks the username, the proxy, and that the shelf page
// renders to something other than a not-found or sign-in page.
func (f *Fetcher) ValidateConfig(ctx context.Context, cfg lists.SourceConfig) (res lists.ValidationResult) {
	defer lists.RecoverValidate(SourceName, &res)

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Invalid(ferr)
	}
	if _, ferr := f.render(ctx, cfg); ferr != nil {
		return lists.Invalid(ferr)
	}
	return lists.Valid()
}

// FetchBooks renders the whole shelf in one go. StoryGraph has no stable
// page addressing we can reach, so any page after the first is empty.
func (f *Fetcher) FetchBooks(ctx context.Context, cfg lists.SourceConfig, page int) (res lists.FetchResult) {
	defer lists.RecoverFetch(SourceName, &res)

	if page > 1 {
		return lists.Done(nil)
	}

	cfg, ferr := normalizeConfig(cfg)
	if ferr != nil {
		return lists.Failed(ferr)
	}

	body, ferr := f.render(ctx, cfg)
	if ferr != nil {
		return lists.Failed(ferr)
	}

	books := extractBooks(body, f.baseURL)
	log.Printf("StoryGraph: %s/%s: extracted %d books", cfg.Shelf, cfg.Username, len(books))
	return lists.Done(books)
}

// AvailableLists returns the fixed StoryGraph shelves.
func (f *Fetcher) AvailableLists(_ context.Context, _ lists.SourceConfig) (result []lists.AvailableList) {
	defer lists.RecoverLists(SourceName, &result, Shelves)
	return append([]lists.AvailableList(nil), Shelves...)
}

func normalizeConfig(cfg lists.SourceConfig) (lists.SourceConfig, *lists.FetchError) {
	cfg.Username = strings.TrimPrefix(strings.TrimSpace(cfg.Username), "@")
	if cfg.Username == "" {
		return cfg, lists.ConfigError("StoryGraph username is required")
	}
	if !usernameRe.MatchString(cfg.Username) {
		return cfg, lists.ConfigError("invalid StoryGraph username %q", cfg.Username)
	}

	cfg.Shelf = strings.TrimSpace(cfg.Shelf)
	if cfg.Shelf == "" {
		cfg.Shelf = DefaultShelf
	}
	if !isShelf(cfg.Shelf) {
		return cfg, lists.ConfigError("unknown StoryGraph shelf %q", cfg.Shelf)
	}
	return cfg, nil
}

func isShelf(id string) bool {
	for _, s := range Shelves {
		if s.ID == id {
			return true
		}
	}
	return false
}

func (f *Fetcher) shelfURL(cfg lists.SourceConfig) string {
	return fmt.Sprintf("%s/%s/%s", f.baseURL, cfg.Shelf, url.PathEscape(cfg.Username))
}

// render probes the proxy, renders the shelf page and classifies soft
// failures hidden behind a successful response.
func (f *Fetcher) render(ctx context.Context, cfg lists.SourceConfig) (string, *lists.FetchError) {
	if f.proxy == nil || !f.proxy.Configured() {
		return "", lists.UnreachableError("StoryGraph requires a FlareSolverr proxy; set FLARESOLVERR_URL")
	}
	if err := f.proxy.Health(ctx); err != nil {
		return "", lists.UnreachableError("FlareSolverr proxy is unavailable: %v", err)
	}

	sol, err := f.proxy.Get(ctx, flaresolverr.RenderRequest{TargetURL: f.shelfURL(cfg)})
	if err != nil {
		var proxyErr *flaresolverr.ProxyError
		if errors.As(err, &proxyErr) {
			return "", lists.UnreachableError("FlareSolverr could not render StoryGraph: %s", proxyErr.Message)
		}
		return "", lists.UnreachableError("failed to render StoryGraph page: %v", err)
	}

	switch {
	case sol.StatusCode == http.StatusNotFound || isNotFoundPage(sol.Body):
		return "", lists.NotFoundError("StoryGraph user %q was not found", cfg.Username)
	case isSignInPage(sol.Body) || isSignInURL(sol.URL):
		return "", lists.PrivateError("StoryGraph profile %q is private or requires sign-in", cfg.Username)
	case sol.StatusCode >= 400:
		return "", lists.UnreachableError("StoryGraph returned HTTP %d", sol.StatusCode)
	}
	return sol.Body, nil
}
