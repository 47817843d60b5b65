package importers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/shelfsync/internal/entities"
	"github.com/mrlokans/shelfsync/internal/lists"
)

// DefaultMaxPages bounds a single sync when no limit is configured.
const DefaultMaxPages = 50

var (
	// ErrImportPaused is returned when syncing a paused import.
	ErrImportPaused = errors.New("list import is paused")
	// ErrSyncInProgress is returned when the import is already being synced.
	ErrSyncInProgress = errors.New("list import sync already in progress")
)

// ListImportStore persists imports, their books and sync runs.
type ListImportStore interface {
	Get(id uint) (*entities.ListImport, error)
	ListRunnable() ([]entities.ListImport, error)
	SeenHashes(importID uint) (map[string]bool, error)
	SaveNewBooks(importID uint, books []lists.ListBook, seenAt time.Time) (int, error)
	RecordSuccess(importID uint, at time.Time, added int) error
	RecordFailure(importID uint, ferr *lists.FetchError, added int) error
	Pause(importID uint, ferr *lists.FetchError, added int) error
	StartRun(importID uint) (*entities.ListImportRun, error)
	CompleteRun(run *entities.ListImportRun) error
	IsRunning(importID uint) (bool, error)
}

// BookSource resolves a source tag and runs the list contract on it.
type BookSource interface {
	Validate(ctx context.Context, source string, cfg lists.SourceConfig) (lists.ValidationResult, error)
	Fetch(ctx context.Context, source string, cfg lists.SourceConfig, page int) (lists.FetchResult, error)
}

// SyncReport summarises one sync of one import.
type SyncReport struct {
	RunID     string            `json:"run_id"`
	ImportID  uint              `json:"import_id"`
	Source    string            `json:"source"`
	Pages     int               `json:"pages"`
	Fetched   int               `json:"fetched"`
	New       int               `json:"new"`
	Truncated bool              `json:"truncated"`
	Paused    bool              `json:"paused"`
	Error     *lists.FetchError `json:"error,omitempty"`
}

type SyncerOptions struct {
	// MaxPages stops the page loop early. Zero means DefaultMaxPages.
	MaxPages int
}

// Syncer pulls books from list sources into the store.
type Syncer struct {
	store    ListImportStore
	source   BookSource
	maxPages int

	mu      sync.Mutex
	running map[uint]bool

	now func() time.Time
}

// NewSyncer creates a syncer backed by store and source.
func NewSyncer(store ListImportStore, source BookSource, opts SyncerOptions) *Syncer {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Syncer{
		store:    store,
		source:   source,
		maxPages: maxPages,
		running:  make(map[uint]bool),
		now:      time.Now,
	}
}

// Sync fetches every page of an import and stores the books not seen
// before. Source failures are reported in SyncReport.Error; the returned
// error is reserved for store failures and precondition violations.
func (s *Syncer) Sync(ctx context.Context, importID uint) (*SyncReport, error) {
	imp, err := s.store.Get(importID)
	if err != nil {
		return nil, err
	}
	if imp.Status == entities.ListImportPaused {
		return nil, fmt.Errorf("%w: %d", ErrImportPaused, importID)
	}

	if !s.acquire(importID) {
		return nil, fmt.Errorf("%w: %d", ErrSyncInProgress, importID)
	}
	defer s.release(importID)

	running, err := s.store.IsRunning(importID)
	if err != nil {
		return nil, fmt.Errorf("failed to check sync state: %w", err)
	}
	if running {
		return nil, fmt.Errorf("%w: %d", ErrSyncInProgress, importID)
	}

	run, err := s.store.StartRun(importID)
	if err != nil {
		return nil, fmt.Errorf("failed to start sync run: %w", err)
	}

	report := &SyncReport{RunID: run.RunID, ImportID: importID, Source: imp.Source}
	log.Printf("List sync: starting import %d (%s, run %s)", importID, imp.Source, run.RunID)

	storeErr := s.syncPages(ctx, imp, report)
	if storeErr == nil {
		storeErr = s.finish(importID, report)
	}

	run.Pages = report.Pages
	run.Fetched = report.Fetched
	run.Added = report.New
	run.Truncated = report.Truncated
	run.Status = entities.RunStatusCompleted
	if report.Error != nil || storeErr != nil {
		run.Status = entities.RunStatusFailed
	}
	if report.Error != nil {
		run.Error = report.Error.Error()
		run.ErrorKind = string(report.Error.Kind)
	} else if storeErr != nil {
		run.Error = storeErr.Error()
		run.ErrorKind = string(lists.KindInternal)
	}
	if err := s.store.CompleteRun(run); err != nil {
		log.Printf("List sync: failed to complete run %s: %v", run.RunID, err)
	}

	if storeErr != nil {
		return report, storeErr
	}

	log.Printf("List sync: import %d done: %d pages, %d fetched, %d new", importID, report.Pages, report.Fetched, report.New)
	return report, nil
}

func (s *Syncer) syncPages(ctx context.Context, imp *entities.ListImport, report *SyncReport) error {
	cfg := imp.SourceConfig()

	validation, err := s.source.Validate(ctx, imp.Source, cfg)
	if err != nil {
		report.Error = lists.ConfigError("%v", err)
		return nil
	}
	if !validation.Valid {
		report.Error = validation.Error
		if report.Error == nil {
			report.Error = lists.ConfigError("invalid %s configuration", imp.Source)
		}
		return nil
	}

	seen, err := s.store.SeenHashes(imp.ID)
	if err != nil {
		return fmt.Errorf("failed to load seen books: %w", err)
	}

	visited := make(map[int]bool)
	page := 1
	for {
		if ctx.Err() != nil {
			report.Error = lists.UnreachableError("sync cancelled: %v", ctx.Err())
			return nil
		}

		visited[page] = true
		result, err := s.source.Fetch(ctx, imp.Source, cfg, page)
		if err != nil {
			report.Error = lists.ConfigError("%v", err)
			return nil
		}
		report.Pages++
		report.Fetched += len(result.Books)

		fresh := make([]lists.ListBook, 0, len(result.Books))
		for _, b := range result.Books {
			if b.Hash == "" || seen[b.Hash] {
				continue
			}
			seen[b.Hash] = true
			fresh = append(fresh, b)
		}
		if len(fresh) > 0 {
			added, err := s.store.SaveNewBooks(imp.ID, fresh, s.now())
			if err != nil {
				return err
			}
			report.New += added
		}

		if result.Error != nil {
			report.Error = result.Error
			return nil
		}
		if !result.HasMore {
			return nil
		}

		next := result.NextPage
		if next <= 0 {
			next = page + 1
		}
		if visited[next] {
			log.Printf("List sync: import %d asked to revisit page %d, stopping", imp.ID, next)
			return nil
		}
		if report.Pages >= s.maxPages {
			log.Printf("List sync: import %d reached the %d page limit", imp.ID, s.maxPages)
			report.Truncated = true
			return nil
		}
		page = next
	}
}

func (s *Syncer) finish(importID uint, report *SyncReport) error {
	switch {
	case report.Error == nil:
		return s.store.RecordSuccess(importID, s.now(), report.New)
	case lists.IsAccessRevoked(report.Error):
		log.Printf("List sync: pausing import %d: %v", importID, report.Error)
		report.Paused = true
		return s.store.Pause(importID, report.Error, report.New)
	default:
		log.Printf("List sync: import %d failed: %v", importID, report.Error)
		return s.store.RecordFailure(importID, report.Error, report.New)
	}
}

// SyncAll syncs every enabled, active import one after another. Imports
// that fail to sync are logged and skipped.
func (s *Syncer) SyncAll(ctx context.Context) ([]*SyncReport, error) {
	imports, err := s.store.ListRunnable()
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}

	reports := make([]*SyncReport, 0, len(imports))
	for _, imp := range imports {
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}
		report, err := s.Sync(ctx, imp.ID)
		if err != nil {
			log.Printf("List sync: skipping import %d: %v", imp.ID, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Syncer) acquire(importID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[importID] {
		return false
	}
	s.running[importID] = true
	return true
}

func (s *Syncer) release(importID uint) {
	s.mu.Lock()
	delete(s.running, importID)
	s.mu.Unlock()
}
