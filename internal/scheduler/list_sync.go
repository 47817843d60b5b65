package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/shelfsync/internal/importers"
)

// DefaultListSyncTimeout bounds one scheduled pass over all imports.
const DefaultListSyncTimeout = 30 * time.Minute

// ListSyncer syncs every runnable list import.
type ListSyncer interface {
	SyncAll(ctx context.Context) ([]*importers.SyncReport, error)
}

// ListSyncConfig controls the list sync scheduler.
type ListSyncConfig struct {
	Enabled  bool
	Schedule string
	Timeout  time.Duration
}

// ListSyncScheduler periodically syncs all enabled, active list imports.
type ListSyncScheduler struct {
	syncer ListSyncer
	config ListSyncConfig

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc

	lastRunAt   *time.Time
	lastReports []*importers.SyncReport
}

// NewListSyncScheduler creates a new scheduler instance
func NewListSyncScheduler(syncer ListSyncer, config ListSyncConfig) *ListSyncScheduler {
	if config.Schedule == "" {
		config.Schedule = DefaultListSyncSchedule
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultListSyncTimeout
	}
	return &ListSyncScheduler{
		syncer: syncer,
		config: config,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if list sync is enabled
func (s *ListSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("List sync scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.runSync)
	if err != nil {
		return fmt.Errorf("failed to schedule list sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.config.Schedule, time.Now())
	log.Printf("List sync scheduler: started with schedule '%s' (%s). Next run: %v",
		s.config.Schedule,
		GetCronDescription(s.config.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sync.
func (s *ListSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// The lock is released first: a running job takes it when it finishes.
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("List sync scheduler: stopped")
}

// RunNow triggers an immediate sync in the background
func (s *ListSyncScheduler) RunNow() {
	go s.runSync()
}

// IsRunning returns whether the scheduler is active
func (s *ListSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a sync is currently in progress
func (s *ListSyncScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next sync will occur
func (s *ListSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastRun returns when the last sync finished and its reports.
func (s *ListSyncScheduler) LastRun() (*time.Time, []*importers.SyncReport) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRunAt, s.lastReports
}

func (s *ListSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("List sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	log.Printf("List sync: starting scheduled sync")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	reports, err := s.syncer.SyncAll(ctx)
	if err != nil {
		log.Printf("List sync: %v", err)
	}

	var added, failed int
	for _, r := range reports {
		added += r.New
		if r.Error != nil {
			failed++
		}
	}

	finishedAt := time.Now()
	s.mu.Lock()
	s.lastRunAt = &finishedAt
	s.lastReports = reports
	s.mu.Unlock()

	log.Printf("List sync: synced %d imports (%d failed), %d new books in %v",
		len(reports), failed, added, time.Since(startTime).Round(time.Millisecond))
}
