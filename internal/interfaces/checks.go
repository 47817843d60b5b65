package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shelfsync/internal/database/listimports"
	"github.com/mrlokans/shelfsync/internal/flaresolverr"
	"github.com/mrlokans/shelfsync/internal/http"
	"github.com/mrlokans/shelfsync/internal/importers"
	"github.com/mrlokans/shelfsync/internal/lists"
	"github.com/mrlokans/shelfsync/internal/lists/goodreads"
	"github.com/mrlokans/shelfsync/internal/lists/openlibrary"
	"github.com/mrlokans/shelfsync/internal/lists/registry"
	"github.com/mrlokans/shelfsync/internal/lists/storygraph"
	"github.com/mrlokans/shelfsync/internal/scheduler"
	"github.com/mrlokans/shelfsync/internal/tasks"
)

// =============================================================================
// List Sources
// =============================================================================

var _ lists.Fetcher = (*goodreads.Fetcher)(nil)
var _ lists.Fetcher = (*storygraph.Fetcher)(nil)
var _ lists.Fetcher = (*openlibrary.Fetcher)(nil)

var _ lists.ProfileURLParser = (*goodreads.Fetcher)(nil)
var _ lists.ProfileURLParser = (*storygraph.Fetcher)(nil)
var _ lists.ProfileURLParser = (*openlibrary.Fetcher)(nil)

var _ lists.ListDiscoverer = (*goodreads.Fetcher)(nil)
var _ lists.ListDiscoverer = (*storygraph.Fetcher)(nil)
var _ lists.ListDiscoverer = (*openlibrary.Fetcher)(nil)

var _ lists.Described = (*goodreads.Fetcher)(nil)
var _ lists.Described = (*storygraph.Fetcher)(nil)
var _ lists.Described = (*openlibrary.Fetcher)(nil)

// Browser proxy used by StoryGraph
var _ storygraph.Renderer = (*flaresolverr.Client)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ importers.ListImportStore = (*listimports.Repository)(nil)
var _ http.ImportStore = (*listimports.Repository)(nil)

// =============================================================================
// Sync Pipeline
// =============================================================================

var _ importers.BookSource = (*registry.Registry)(nil)
var _ http.ListSources = (*registry.Registry)(nil)
var _ http.ImportSyncer = (*importers.Syncer)(nil)
var _ tasks.ImportSyncer = (*importers.Syncer)(nil)
var _ scheduler.ListSyncer = (*importers.Syncer)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.SyncEnqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.SchedulerStatus = (*scheduler.ListSyncScheduler)(nil)
