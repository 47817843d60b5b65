// Package listimports provides database operations for configured list
// imports, the books already seen in each of them and their sync runs.
//
// # Interface Implementation
//
//	var _ importers.ListImportStore = (*Repository)(nil)
//
// # Usage
//
//	repo := listimports.NewRepository(db)
//	seen, err := repo.SeenHashes(importID)
//	added, err := repo.SaveNewBooks(importID, books, time.Now())
package listimports

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shelfsync/internal/entities"
	"github.com/mrlokans/shelfsync/internal/lists"
)

// ErrNotFound is returned when an import does not exist.
var ErrNotFound = errors.New("list import not found")

// A run not updated for this long is considered abandoned.
const staleRunThreshold = 30 * time.Minute

// Repository handles all list import database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new list imports repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new import. Status defaults to active.
func (r *Repository) Create(imp *entities.ListImport) error {
	if imp.Status == "" {
		imp.Status = entities.ListImportActive
	}
	enabled := imp.Enabled
	if err := r.db.Create(imp).Error; err != nil {
		return err
	}
	// gorm skips zero values for columns with a default, so false
	// has to be written separately.
	if !enabled {
		imp.Enabled = false
		return r.SetEnabled(imp.ID, false)
	}
	return nil
}

// Get returns an import by id.
func (r *Repository) Get(id uint) (*entities.ListImport, error) {
	var imp entities.ListImport
	err := r.db.First(&imp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// List returns all imports ordered by id.
func (r *Repository) List() ([]entities.ListImport, error) {
	var imps []entities.ListImport
	err := r.db.Order("id").Find(&imps).Error
	return imps, err
}

// ListRunnable returns enabled, active imports.
func (r *Repository) ListRunnable() ([]entities.ListImport, error) {
	var imps []entities.ListImport
	err := r.db.Where("enabled = ? AND status = ?", true, entities.ListImportActive).
		Order("id").Find(&imps).Error
	return imps, err
}

// Delete removes an import together with its books and runs.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("import_id = ?", id).Delete(&entities.ListImportBook{}).Error; err != nil {
			return err
		}
		if err := tx.Where("import_id = ?", id).Delete(&entities.ListImportRun{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entities.ListImport{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil
	})
}

// SeenHashes returns the hashes of every book stored for an import.
func (r *Repository) SeenHashes(importID uint) (map[string]bool, error) {
	var hashes []string
	err := r.db.Model(&entities.ListImportBook{}).
		Where("import_id = ?", importID).
		Pluck("hash", &hashes).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		seen[h] = true
	}
	return seen, nil
}

// SaveNewBooks inserts books for an import, skipping hashes that are
// already stored. It returns the number of rows inserted.
func (r *Repository) SaveNewBooks(importID uint, books []lists.ListBook, seenAt time.Time) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	rows := make([]entities.ListImportBook, 0, len(books))
	for _, b := range books {
		rows = append(rows, entities.NewListImportBook(importID, b, seenAt))
	}

	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 100)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to save list books: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Books returns stored books for an import, newest first.
func (r *Repository) Books(importID uint, limit, offset int) ([]entities.ListImportBook, int64, error) {
	var total int64
	q := r.db.Model(&entities.ListImportBook{}).Where("import_id = ?", importID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.ListImportBook
	err := q.Order("first_seen_at DESC, id DESC").Limit(limit).Offset(offset).Find(&books).Error
	return books, total, err
}

// RecordSuccess marks a completed sync and clears any previous error.
func (r *Repository) RecordSuccess(importID uint, at time.Time, added int) error {
	return r.db.Model(&entities.ListImport{}).
		Where("id = ?", importID).
		Updates(map[string]any{
			"last_synced_at":  at,
			"last_error":      "",
			"last_error_kind": "",
			"books_count":     gorm.Expr("books_count + ?", added),
		}).Error
}

// RecordFailure stores a transient sync error. The import stays active.
func (r *Repository) RecordFailure(importID uint, ferr *lists.FetchError, added int) error {
	return r.db.Model(&entities.ListImport{}).
		Where("id = ?", importID).
		Updates(map[string]any{
			"last_error":      ferr.Error(),
			"last_error_kind": string(ferr.Kind),
			"books_count":     gorm.Expr("books_count + ?", added),
		}).Error
}

// Pause stops scheduled syncs for an import and records why.
func (r *Repository) Pause(importID uint, ferr *lists.FetchError, added int) error {
	return r.db.Model(&entities.ListImport{}).
		Where("id = ?", importID).
		Updates(map[string]any{
			"status":          entities.ListImportPaused,
			"last_error":      ferr.Error(),
			"last_error_kind": string(ferr.Kind),
			"books_count":     gorm.Expr("books_count + ?", added),
		}).Error
}

// Resume reactivates a paused import.
func (r *Repository) Resume(importID uint) error {
	res := r.db.Model(&entities.ListImport{}).
		Where("id = ?", importID).
		Updates(map[string]any{
			"status":          entities.ListImportActive,
			"last_error":      "",
			"last_error_kind": "",
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, importID)
	}
	return nil
}

// SetEnabled toggles whether the scheduler picks up an import.
func (r *Repository) SetEnabled(importID uint, enabled bool) error {
	return r.db.Model(&entities.ListImport{}).Where("id = ?", importID).Update("enabled", enabled).Error
}

// StartRun records the start of a sync run.
func (r *Repository) StartRun(importID uint) (*entities.ListImportRun, error) {
	now := time.Now()
	run := &entities.ListImportRun{
		RunID:     uuid.NewString(),
		ImportID:  importID,
		Status:    entities.RunStatusRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// CompleteRun stores the final counters of a run.
func (r *Repository) CompleteRun(run *entities.ListImportRun) error {
	now := time.Now()
	run.UpdatedAt = now
	run.CompletedAt = &now
	if run.Status == entities.RunStatusRunning {
		run.Status = entities.RunStatusCompleted
	}
	return r.db.Save(run).Error
}

// Runs returns the most recent runs for an import.
func (r *Repository) Runs(importID uint, limit int) ([]entities.ListImportRun, error) {
	var runs []entities.ListImportRun
	err := r.db.Where("import_id = ?", importID).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// IsRunning checks whether a run for the import is in progress. Runs not
// updated within staleRunThreshold are marked failed and ignored.
func (r *Repository) IsRunning(importID uint) (bool, error) {
	var run entities.ListImportRun
	err := r.db.Where("import_id = ? AND status = ?", importID, entities.RunStatusRunning).
		Order("started_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if run.UpdatedAt.Before(time.Now().Add(-staleRunThreshold)) {
		run.Status = entities.RunStatusFailed
		run.Error = "run was interrupted"
		if err := r.CompleteRun(&run); err != nil {
			log.Printf("List imports: failed to mark stale run %s as failed: %v", run.RunID, err)
		}
		return false, nil
	}
	return true, nil
}
