package lists

import "context"

// Fetcher is implemented by every list source.
//
// FetchBooks must be idempotent for a given (config, page): repeating the
// call may not skip or double-emit books. Pages are 1-based.
type Fetcher interface {
	// Name is the stable source tag, e.g. "goodreads".
	Name() string
	// ValidateConfig checks cfg syntactically and then probes the source.
	ValidateConfig(ctx context.Context, cfg SourceConfig) ValidationResult
	// FetchBooks returns one page of books.
	FetchBooks(ctx context.Context, cfg SourceConfig, page int) FetchResult
}

// ProfileURLParser is implemented by sources that can turn a public profile
// or list URL into a SourceConfig.
type ProfileURLParser interface {
	ParseProfileURL(rawURL string) (SourceConfig, bool)
}

// ListDiscoverer is implemented by sources that can enumerate a user's
// lists. Implementations fall back to their built-in lists when discovery
// fails, so the returned slice is never empty.
type ListDiscoverer interface {
	AvailableLists(ctx context.Context, cfg SourceConfig) []AvailableList
}

// SourceInfo is static metadata about a source.
type SourceInfo struct {
	Name                  string   `json:"name"`
	DisplayName           string   `json:"display_name"`
	Description           string   `json:"description"`
	RequiresAPIKey        bool     `json:"requires_api_key"`
	RequiresProxy         bool     `json:"requires_proxy"`
	SupportsProfileURL    bool     `json:"supports_profile_url"`
	SupportsListDiscovery bool     `json:"supports_list_discovery"`
	ConfigFields          []string `json:"config_fields"`
}

// Described is implemented by fetchers that publish SourceInfo.
type Described interface {
	Info() SourceInfo
}
