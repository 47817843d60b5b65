// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors find
// extension points and see how to implement new functionality.
//
// # Interface Categories
//
// ## List Source Interfaces
//
//   - Fetcher: Validate a config and fetch one page of books (internal/lists/fetcher.go)
//   - ProfileURLParser: Turn a profile URL into a SourceConfig (internal/lists/fetcher.go)
//   - ListDiscoverer: Enumerate a user's shelves and lists (internal/lists/fetcher.go)
//   - Described: Publish SourceInfo metadata (internal/lists/fetcher.go)
//   - Renderer: Headless browser proxy for StoryGraph (internal/lists/storygraph/fetcher.go)
//
// ## Data Access Interfaces
//
//   - ListImportStore: Imports, seen books and runs for the syncer (internal/importers/lists.go)
//   - ImportStore: Import management for HTTP handlers (internal/http/imports.go)
//
// ## Sync Interfaces
//
//   - BookSource: Source lookup plus the list contract (internal/importers/lists.go)
//   - ListSyncer: Periodic sync of all imports (internal/scheduler/list_sync.go)
//   - ImportSyncer: Sync of a single import (internal/tasks/sync_list.go, internal/http/imports.go)
//   - SyncEnqueuer: Background sync through the task queue (internal/http/imports.go)
//
// # Adding a New List Source
//
// To add support for a new reading-list site (e.g., LibraryThing):
//
//  1. Create a package in internal/lists/librarything/
//
//     type Fetcher struct {
//         httpClient *http.Client
//         baseURL    string
//     }
//
//     func (f *Fetcher) Name() string { return "librarything" }
//
//     func (f *Fetcher) ValidateConfig(ctx context.Context, cfg lists.SourceConfig) (res lists.ValidationResult) {
//         defer lists.RecoverValidate(SourceName, &res)
//         // Check fields, then probe the first page
//     }
//
//     func (f *Fetcher) FetchBooks(ctx context.Context, cfg lists.SourceConfig, page int) (res lists.FetchResult) {
//         defer lists.RecoverFetch(SourceName, &res)
//         // Map every failure to a *lists.FetchError, never panic or return a bare error
//     }
//
//  2. Implement the optional capabilities that apply (ProfileURLParser,
//     ListDiscoverer, Described)
//
//  3. Register in registry.NewDefault and add compile-time checks to checks.go
//
//  4. Add recorded upstream responses as fixtures and test against them with
//     httptest.Server
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Implement interface methods
//
//  4. Add compile-time check:
//
//     var _ SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
