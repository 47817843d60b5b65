package importers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shelfsync/internal/entities"
	"github.com/mrlokans/shelfsync/internal/lists"
)

type memoryStore struct {
	imports map[uint]*entities.ListImport
	books   map[uint]map[string]lists.ListBook
	runs    []*entities.ListImportRun

	lastError *lists.FetchError
	successes int
	running   bool
	saveErr   error
}

func newMemoryStore(imps ...*entities.ListImport) *memoryStore {
	s := &memoryStore{
		imports: make(map[uint]*entities.ListImport),
		books:   make(map[uint]map[string]lists.ListBook),
	}
	for _, imp := range imps {
		if imp.Status == "" {
			imp.Status = entities.ListImportActive
		}
		s.imports[imp.ID] = imp
		s.books[imp.ID] = make(map[string]lists.ListBook)
	}
	return s
}

func (s *memoryStore) Get(id uint) (*entities.ListImport, error) {
	imp, ok := s.imports[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *imp
	return &cp, nil
}

func (s *memoryStore) ListRunnable() ([]entities.ListImport, error) {
	var out []entities.ListImport
	for id := uint(1); id <= uint(len(s.imports)); id++ {
		imp, ok := s.imports[id]
		if ok && imp.Enabled && imp.Status == entities.ListImportActive {
			out = append(out, *imp)
		}
	}
	return out, nil
}

func (s *memoryStore) SeenHashes(importID uint) (map[string]bool, error) {
	seen := make(map[string]bool)
	for h := range s.books[importID] {
		seen[h] = true
	}
	return seen, nil
}

func (s *memoryStore) SaveNewBooks(importID uint, books []lists.ListBook, _ time.Time) (int, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	added := 0
	for _, b := range books {
		if _, ok := s.books[importID][b.Hash]; ok {
			continue
		}
		s.books[importID][b.Hash] = b
		added++
	}
	return added, nil
}

func (s *memoryStore) RecordSuccess(importID uint, _ time.Time, added int) error {
	s.successes++
	s.imports[importID].BooksCount += added
	s.imports[importID].LastError = ""
	return nil
}

func (s *memoryStore) RecordFailure(importID uint, ferr *lists.FetchError, added int) error {
	s.lastError = ferr
	s.imports[importID].BooksCount += added
	s.imports[importID].LastError = ferr.Error()
	return nil
}

func (s *memoryStore) Pause(importID uint, ferr *lists.FetchError, added int) error {
	s.lastError = ferr
	s.imports[importID].Status = entities.ListImportPaused
	s.imports[importID].BooksCount += added
	s.imports[importID].LastError = ferr.Error()
	return nil
}

func (s *memoryStore) StartRun(importID uint) (*entities.ListImportRun, error) {
	run := &entities.ListImportRun{
		RunID:    fmt.Sprintf("run-%d", len(s.runs)+1),
		ImportID: importID,
		Status:   entities.RunStatusRunning,
	}
	s.runs = append(s.runs, run)
	return run, nil
}

func (s *memoryStore) CompleteRun(*entities.ListImportRun) error { return nil }

func (s *memoryStore) IsRunning(uint) (bool, error) { return s.running, nil }

// scriptedSource returns pages[page] for each request.
type scriptedSource struct {
	invalid *lists.FetchError
	pages   map[int]lists.FetchResult
	calls   []int
}

func (f *scriptedSource) Validate(_ context.Context, source string, _ lists.SourceConfig) (lists.ValidationResult, error) {
	if source != "goodreads" {
		return lists.ValidationResult{}, lists.ErrUnknownSource
	}
	if f.invalid != nil {
		return lists.Invalid(f.invalid), nil
	}
	return lists.Valid(), nil
}

func (f *scriptedSource) Fetch(_ context.Context, _ string, _ lists.SourceConfig, page int) (lists.FetchResult, error) {
	f.calls = append(f.calls, page)
	res, ok := f.pages[page]
	if !ok {
		return lists.Done(nil), nil
	}
	return res, nil
}

func books(hashes ...string) []lists.ListBook {
	out := make([]lists.ListBook, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, lists.ListBook{Title: "Title " + h, Author: "Author", Hash: h})
	}
	return out
}

func testImport() *entities.ListImport {
	return &entities.ListImport{ID: 1, Name: "To read", Source: "goodreads", UserID: "42", Enabled: true}
}

func TestSyncer_Sync_PagesAndDedups(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{
		1: lists.More(books("a", "b"), 2),
		2: lists.More(books("b", "c"), 3),
		3: lists.Done(books("d")),
	}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, 5, report.Fetched)
	assert.Equal(t, 4, report.New)
	assert.Nil(t, report.Error)
	assert.Equal(t, []int{1, 2, 3}, source.calls)
	assert.Equal(t, 1, store.successes)
	assert.Equal(t, 4, store.imports[1].BooksCount)
}

func TestSyncer_Sync_OnlyNewBooksOnSecondRun(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{1: lists.Done(books("a", "b"))}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	_, err := syncer.Sync(context.Background(), 1)
	require.NoError(t, err)

	source.pages[1] = lists.Done(books("a", "b", "c"))
	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 1, report.New)
}

func TestSyncer_Sync_StopsAtMaxPages(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{
		1: lists.More(books("a"), 2),
		2: lists.More(books("b"), 3),
		3: lists.More(books("c"), 4),
	}}
	syncer := NewSyncer(store, source, SyncerOptions{MaxPages: 2})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	assert.True(t, report.Truncated)
	assert.Equal(t, []int{1, 2}, source.calls)
}

func TestSyncer_Sync_StopsOnRevisitedPage(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{
		1: lists.More(books("a"), 2),
		2: lists.More(books("b"), 1),
	}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, source.calls)
	assert.Equal(t, 2, report.New)
	assert.False(t, report.Truncated)
}

func TestSyncer_Sync_AccessRevokedPausesImport(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{
		1: lists.More(books("a"), 2),
		2: lists.Failed(lists.PrivateError("shelf is private")),
	}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, report.Paused)
	assert.Equal(t, 1, report.New)
	require.NotNil(t, report.Error)
	assert.Equal(t, lists.KindAccessRevoked, report.Error.Kind)
	assert.Equal(t, entities.ListImportPaused, store.imports[1].Status)
	assert.Equal(t, "LIST_PRIVATE: shelf is private", store.imports[1].LastError)

	_, err = syncer.Sync(context.Background(), 1)
	assert.ErrorIs(t, err, ErrImportPaused)
}

func TestSyncer_Sync_InvalidConfigNotFoundPauses(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{invalid: lists.NotFoundError("user 42 does not exist")}
	syncer := NewSyncer(store, source, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, report.Paused)
	assert.Empty(t, source.calls)
}

func TestSyncer_Sync_TransientErrorKeepsImportActive(t *testing.T) {
	store := newMemoryStore(testImport())
	source := &scriptedSource{pages: map[int]lists.FetchResult{
		1: lists.Failed(lists.UnreachableError("goodreads returned HTTP 503")),
	}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, report.Paused)
	assert.Equal(t, entities.ListImportActive, store.imports[1].Status)
	require.NotNil(t, store.lastError)
	assert.Equal(t, lists.KindUnreachable, store.lastError.Kind)
}

func TestSyncer_Sync_UnknownSource(t *testing.T) {
	imp := testImport()
	imp.Source = "nope"
	store := newMemoryStore(imp)
	syncer := NewSyncer(store, &scriptedSource{}, SyncerOptions{})

	report, err := syncer.Sync(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, report.Error)
	assert.Equal(t, lists.KindConfig, report.Error.Kind)
}

func TestSyncer_Sync_StoreFailureIsReturned(t *testing.T) {
	store := newMemoryStore(testImport())
	store.saveErr = errors.New("disk full")
	source := &scriptedSource{pages: map[int]lists.FetchResult{1: lists.Done(books("a"))}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	_, err := syncer.Sync(context.Background(), 1)

	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, store.successes)
}

func TestSyncer_Sync_AlreadyRunning(t *testing.T) {
	store := newMemoryStore(testImport())
	store.running = true
	syncer := NewSyncer(store, &scriptedSource{}, SyncerOptions{})

	_, err := syncer.Sync(context.Background(), 1)

	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestSyncer_SyncAll_SkipsPausedAndDisabled(t *testing.T) {
	paused := &entities.ListImport{ID: 2, Source: "goodreads", Enabled: true, Status: entities.ListImportPaused}
	disabled := &entities.ListImport{ID: 3, Source: "goodreads", Enabled: false}
	store := newMemoryStore(testImport(), paused, disabled)
	source := &scriptedSource{pages: map[int]lists.FetchResult{1: lists.Done(books("a"))}}
	syncer := NewSyncer(store, source, SyncerOptions{})

	reports, err := syncer.SyncAll(context.Background())

	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, uint(1), reports[0].ImportID)
}

func TestSyncer_SyncAll_CancelledContext(t *testing.T) {
	store := newMemoryStore(testImport())
	syncer := NewSyncer(store, &scriptedSource{}, SyncerOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := syncer.SyncAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
