package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shelfsync/internal/importers"
	"github.com/mrlokans/shelfsync/internal/lists"
)

// SyncListTask syncs one list import in the background.
type SyncListTask struct {
	ImportID uint `json:"import_id"`
}

// Config returns the queue configuration for list sync tasks.
func (t SyncListTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_list",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportSyncer syncs a single list import.
type ImportSyncer interface {
	Sync(ctx context.Context, importID uint) (*importers.SyncReport, error)
}

// SyncListProcessor creates a processor function for SyncListTask.
//
// Only unreachable sources are retried. Paused imports, imports already
// syncing and every other source failure are final for the task.
func SyncListProcessor(syncer ImportSyncer) backlite.QueueProcessor[SyncListTask] {
	return func(ctx context.Context, task SyncListTask) error {
		if syncer == nil {
			return fmt.Errorf("list syncer not configured")
		}

		report, err := syncer.Sync(ctx, task.ImportID)
		if errors.Is(err, importers.ErrImportPaused) || errors.Is(err, importers.ErrSyncInProgress) {
			log.Printf("[TASK] List import %d: %v", task.ImportID, err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("sync list import %d: %w", task.ImportID, err)
		}

		if report.Error != nil {
			log.Printf("[TASK] List import %d failed after %d pages: %v", task.ImportID, report.Pages, report.Error)
			if report.Error.Kind == lists.KindUnreachable {
				return report.Error
			}
			return nil
		}

		log.Printf("[TASK] Synced list import %d: %d pages, %d fetched, %d new",
			task.ImportID, report.Pages, report.Fetched, report.New)
		return nil
	}
}

// NewSyncListQueue creates a backlite queue for list sync tasks.
func NewSyncListQueue(syncer ImportSyncer) backlite.Queue {
	return backlite.NewQueue(SyncListProcessor(syncer))
}
