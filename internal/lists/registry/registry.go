// Package registry maps source tags to list fetchers and exposes the
// optional capabilities behind a uniform, error-returning API.
package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mrlokans/shelfsync/internal/config"
	"github.com/mrlokans/shelfsync/internal/flaresolverr"
	"github.com/mrlokans/shelfsync/internal/lists"
	"github.com/mrlokans/shelfsync/internal/lists/goodreads"
	"github.com/mrlokans/shelfsync/internal/lists/openlibrary"
	"github.com/mrlokans/shelfsync/internal/lists/storygraph"
)

// Options configures the built-in sources.
type Options struct {
	GoodreadsBaseURL   string
	StoryGraphBaseURL  string
	OpenLibraryBaseURL string
	CoversBaseURL      string

	FlareSolverrURL     string
	FlareSolverrTimeout time.Duration

	OpenLibraryRequestInterval time.Duration
	OpenLibraryConcurrency     int
}

// OptionsFromConfig maps the environment configuration to Options.
func OptionsFromConfig(cfg config.Lists) Options {
	return Options{
		GoodreadsBaseURL:           cfg.GoodreadsBaseURL,
		StoryGraphBaseURL:          cfg.StoryGraphBaseURL,
		OpenLibraryBaseURL:         cfg.OpenLibraryBaseURL,
		CoversBaseURL:              cfg.CoversBaseURL,
		FlareSolverrURL:            cfg.FlareSolverrURL,
		FlareSolverrTimeout:        cfg.FlareSolverrTimeout,
		OpenLibraryRequestInterval: cfg.OpenLibraryRequestInterval,
		OpenLibraryConcurrency:     cfg.OpenLibraryConcurrency,
	}
}

// Registry holds the fetchers available to the application.
type Registry struct {
	fetchers map[string]lists.Fetcher
}

// New builds a registry from explicit fetchers. Later fetchers replace
// earlier ones with the same name.
func New(fetchers ...lists.Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]lists.Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Name()] = f
	}
	return r
}

// NewDefault builds a registry with every built-in source.
func NewDefault(opts Options) *Registry {
	proxy := flaresolverr.NewClient(opts.FlareSolverrURL, opts.FlareSolverrTimeout)
	return New(
		goodreads.New(opts.GoodreadsBaseURL),
		storygraph.New(proxy, opts.StoryGraphBaseURL),
		openlibrary.New(openlibrary.Options{
			BaseURL:         opts.OpenLibraryBaseURL,
			CoversURL:       opts.CoversBaseURL,
			RequestInterval: opts.OpenLibraryRequestInterval,
			Concurrency:     opts.OpenLibraryConcurrency,
		}),
	)
}

// Get returns the fetcher for source.
func (r *Registry) Get(source string) (lists.Fetcher, error) {
	f, ok := r.fetchers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", lists.ErrUnknownSource, source)
	}
	return f, nil
}

// Names returns the registered source tags in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources describes every registered source.
func (r *Registry) Sources() []lists.SourceInfo {
	infos := make([]lists.SourceInfo, 0, len(r.fetchers))
	for _, name := range r.Names() {
		infos = append(infos, describe(r.fetchers[name]))
	}
	return infos
}

// Info describes one source.
func (r *Registry) Info(source string) (lists.SourceInfo, error) {
	f, err := r.Get(source)
	if err != nil {
		return lists.SourceInfo{}, err
	}
	return describe(f), nil
}

func describe(f lists.Fetcher) lists.SourceInfo {
	if d, ok := f.(lists.Described); ok {
		info := d.Info()
		_, info.SupportsProfileURL = f.(lists.ProfileURLParser)
		_, info.SupportsListDiscovery = f.(lists.ListDiscoverer)
		return info
	}
	_, parses := f.(lists.ProfileURLParser)
	_, discovers := f.(lists.ListDiscoverer)
	return lists.SourceInfo{
		Name:                  f.Name(),
		DisplayName:           f.Name(),
		SupportsProfileURL:    parses,
		SupportsListDiscovery: discovers,
	}
}

// Validate runs ValidateConfig on source.
func (r *Registry) Validate(ctx context.Context, source string, cfg lists.SourceConfig) (lists.ValidationResult, error) {
	f, err := r.Get(source)
	if err != nil {
		return lists.ValidationResult{}, err
	}
	return f.ValidateConfig(ctx, cfg), nil
}

// Fetch runs FetchBooks on source.
func (r *Registry) Fetch(ctx context.Context, source string, cfg lists.SourceConfig, page int) (lists.FetchResult, error) {
	f, err := r.Get(source)
	if err != nil {
		return lists.FetchResult{}, err
	}
	return f.FetchBooks(ctx, cfg, page), nil
}

// AvailableLists lists the user's lists at source.
func (r *Registry) AvailableLists(ctx context.Context, source string, cfg lists.SourceConfig) ([]lists.AvailableList, error) {
	f, err := r.Get(source)
	if err != nil {
		return nil, err
	}
	d, ok := f.(lists.ListDiscoverer)
	if !ok {
		return nil, fmt.Errorf("%s: %w", source, lists.ErrCapabilityUnsupported)
	}
	return d.AvailableLists(ctx, cfg), nil
}

// ParseProfileURL turns a profile URL into a SourceConfig for source.
func (r *Registry) ParseProfileURL(source, rawURL string) (lists.SourceConfig, bool, error) {
	f, err := r.Get(source)
	if err != nil {
		return lists.SourceConfig{}, false, err
	}
	p, ok := f.(lists.ProfileURLParser)
	if !ok {
		return lists.SourceConfig{}, false, fmt.Errorf("%s: %w", source, lists.ErrCapabilityUnsupported)
	}
	cfg, parsed := p.ParseProfileURL(rawURL)
	return cfg, parsed, nil
}

// DetectSource tries every source that parses profile URLs and returns the
// first that recognises rawURL.
func (r *Registry) DetectSource(rawURL string) (string, lists.SourceConfig, bool) {
	for _, name := range r.Names() {
		p, ok := r.fetchers[name].(lists.ProfileURLParser)
		if !ok {
			continue
		}
		if cfg, ok := p.ParseProfileURL(rawURL); ok {
			return name, cfg, true
		}
	}
	return "", lists.SourceConfig{}, false
}
