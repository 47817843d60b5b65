package http

import (
	"github.com/mrlokans/shelfsync/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Sources  ListSources
	Imports  ImportStore
	Syncer   ImportSyncer

	// Task queue (optional). When set, import syncs are enqueued.
	SyncEnqueuer SyncEnqueuer
	TaskStatus   TaskStatusReader

	// Scheduler status (optional)
	Scheduler SchedulerStatus

	// Application info
	Version string
}
