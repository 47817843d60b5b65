package http

import (
	"context"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists"
)

// stubFetcher serves a fixed two-page list for user "42" and reports
// everyone else as private.
type stubFetcher struct{}

func (stubFetcher) Name() string { return "stub" }

func (stubFetcher) Info() lists.SourceInfo {
	return lists.SourceInfo{Name: "stub", DisplayName: "Stub Books", ConfigFields: []string{"user_id", "shelf"}}
}

func (stubFetcher) ValidateConfig(_ context.Context, cfg lists.SourceConfig) lists.ValidationResult {
	switch cfg.UserID {
	case "":
		return lists.Invalid(lists.ConfigError("user_id is required"))
	case "42":
		return lists.Valid()
	default:
		return lists.Invalid(lists.PrivateError("user %s is private", cfg.UserID))
	}
}

func (stubFetcher) FetchBooks(_ context.Context, cfg lists.SourceConfig, page int) lists.FetchResult {
	if cfg.UserID != "42" {
		return lists.Failed(lists.PrivateError("user %s is private", cfg.UserID))
	}
	switch page {
	case 1:
		return lists.More([]lists.ListBook{
			{Title: "Dune", Author: "Frank Herbert", Hash: "stub:1"},
			{Title: "Emma", Author: "Jane Austen", Hash: "stub:2"},
		}, 2)
	case 2:
		return lists.Done([]lists.ListBook{{Title: "Ubik", Author: "Philip K. Dick", Hash: "stub:3"}})
	default:
		return lists.Done(nil)
	}
}

func (stubFetcher) ParseProfileURL(rawURL string) (lists.SourceConfig, bool) {
	const prefix = "https://stub.example/user/"
	if !strings.HasPrefix(rawURL, prefix) {
		return lists.SourceConfig{}, false
	}
	return lists.SourceConfig{UserID: strings.TrimPrefix(rawURL, prefix)}, true
}
