package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shelfsync/internal/database/listimports"
	"github.com/mrlokans/shelfsync/internal/entities"
	"github.com/mrlokans/shelfsync/internal/importers"
	"github.com/mrlokans/shelfsync/internal/lists"
)

// ImportStore defines database operations for list import management.
type ImportStore interface {
	Create(imp *entities.ListImport) error
	Get(id uint) (*entities.ListImport, error)
	List() ([]entities.ListImport, error)
	Delete(id uint) error
	Resume(id uint) error
	SetEnabled(id uint, enabled bool) error
	Books(importID uint, limit, offset int) ([]entities.ListImportBook, int64, error)
	Runs(importID uint, limit int) ([]entities.ListImportRun, error)
}

// ImportSyncer runs a sync of one import in the request goroutine.
type ImportSyncer interface {
	Sync(ctx context.Context, importID uint) (*importers.SyncReport, error)
}

// SyncEnqueuer queues a background sync.
type SyncEnqueuer interface {
	EnqueueListSync(ctx context.Context, importID uint) (string, error)
}

type ImportsController struct {
	store    ImportStore
	sources  ListSources
	syncer   ImportSyncer
	enqueuer SyncEnqueuer
}

// NewImportsController creates the controller. enqueuer may be nil, in
// which case syncs run inline.
func NewImportsController(store ImportStore, sources ListSources, syncer ImportSyncer, enqueuer SyncEnqueuer) *ImportsController {
	return &ImportsController{store: store, sources: sources, syncer: syncer, enqueuer: enqueuer}
}

// CreateImportRequest configures a new list import. Either Source with
// Config, or ProfileURL (with an optional Source) must be given.
type CreateImportRequest struct {
	Name       string             `json:"name"`
	Source     string             `json:"source"`
	Config     lists.SourceConfig `json:"config"`
	ProfileURL string             `json:"profile_url"`
	Enabled    *bool              `json:"enabled"`
}

// ImportDetail is an import together with its latest runs.
type ImportDetail struct {
	entities.ListImport
	Runs []entities.ListImportRun `json:"runs"`
}

// List handles GET /api/imports
func (ic *ImportsController) List(c *gin.Context) {
	imps, err := ic.store.List()
	if err != nil {
		respondInternalError(c, err, "list imports")
		return
	}
	if imps == nil {
		imps = []entities.ListImport{}
	}
	c.JSON(http.StatusOK, imps)
}

// Create handles POST /api/imports
// The config is validated against the source before anything is stored.
func (ic *ImportsController) Create(c *gin.Context) {
	var req CreateImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	source, cfg, ok := ic.resolveConfig(c, req)
	if !ok {
		return
	}

	result, err := ic.sources.Validate(c.Request.Context(), source, cfg)
	if err != nil {
		respondRegistryError(c, err, "validate import")
		return
	}
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "list config is not valid",
			Code:    "invalid_config",
			Details: result.Error,
		})
		return
	}

	imp := &entities.ListImport{
		Name:    req.Name,
		Source:  source,
		Enabled: req.Enabled == nil || *req.Enabled,
	}
	imp.ApplySourceConfig(cfg)
	if imp.Name == "" {
		imp.Name = defaultImportName(source, cfg)
	}

	if err := ic.store.Create(imp); err != nil {
		respondInternalError(c, err, "create import")
		return
	}
	respondCreated(c, imp)
}

func (ic *ImportsController) resolveConfig(c *gin.Context, req CreateImportRequest) (string, lists.SourceConfig, bool) {
	if req.ProfileURL == "" {
		if req.Source == "" {
			respondBadRequest(c, "source or profile_url is required")
			return "", lists.SourceConfig{}, false
		}
		return req.Source, req.Config, true
	}

	if req.Source == "" {
		source, cfg, ok := ic.sources.DetectSource(req.ProfileURL)
		if !ok {
			respondBadRequest(c, "profile_url is not recognised by any source")
			return "", lists.SourceConfig{}, false
		}
		return source, cfg, true
	}

	cfg, parsed, err := ic.sources.ParseProfileURL(req.Source, req.ProfileURL)
	if err != nil {
		respondRegistryError(c, err, "parse profile url")
		return "", lists.SourceConfig{}, false
	}
	if !parsed {
		respondBadRequest(c, fmt.Sprintf("profile_url is not a %s url", req.Source))
		return "", lists.SourceConfig{}, false
	}
	return req.Source, cfg, true
}

func defaultImportName(source string, cfg lists.SourceConfig) string {
	parts := []string{source}
	for _, s := range []string{cfg.Username, cfg.UserID, cfg.ListName, cfg.Shelf, cfg.ListID} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Get handles GET /api/imports/:id
func (ic *ImportsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	imp, ok := ic.load(c, id)
	if !ok {
		return
	}
	runs, err := ic.store.Runs(id, 10)
	if err != nil {
		respondInternalError(c, err, "get import runs")
		return
	}
	if runs == nil {
		runs = []entities.ListImportRun{}
	}
	c.JSON(http.StatusOK, ImportDetail{ListImport: *imp, Runs: runs})
}

// Update handles PATCH /api/imports/:id
func (ic *ImportsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		respondBadRequest(c, "enabled is required")
		return
	}
	if _, ok := ic.load(c, id); !ok {
		return
	}

	if err := ic.store.SetEnabled(id, *req.Enabled); err != nil {
		respondInternalError(c, err, "update import")
		return
	}
	imp, ok := ic.load(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, imp)
}

// Delete handles DELETE /api/imports/:id
func (ic *ImportsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.store.Delete(id); err != nil {
		if errors.Is(err, listimports.ErrNotFound) {
			respondNotFound(c, "import")
			return
		}
		respondInternalError(c, err, "delete import")
		return
	}
	respondSuccess(c, "import deleted")
}

// Books handles GET /api/imports/:id/books
func (ic *ImportsController) Books(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := ic.load(c, id); !ok {
		return
	}

	limit, offset := parsePagination(c, 50, 200)
	books, total, err := ic.store.Books(id, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list import books")
		return
	}
	if books == nil {
		books = []entities.ListImportBook{}
	}
	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    books,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(books)) < total,
	})
}

// Sync handles POST /api/imports/:id/sync
// With a task queue the sync is enqueued (202), otherwise it runs inline
// and the report is returned.
func (ic *ImportsController) Sync(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imp, ok := ic.load(c, id)
	if !ok {
		return
	}
	if imp.Status == entities.ListImportPaused {
		respondError(c, http.StatusConflict, "paused", "import is paused: "+imp.LastError)
		return
	}

	if ic.enqueuer != nil {
		taskID, err := ic.enqueuer.EnqueueListSync(c.Request.Context(), id)
		if err != nil {
			respondInternalError(c, err, "enqueue list sync")
			return
		}
		respondAccepted(c, "sync enqueued", gin.H{"task_id": taskID})
		return
	}

	report, err := ic.syncer.Sync(c.Request.Context(), id)
	switch {
	case errors.Is(err, importers.ErrImportPaused):
		respondError(c, http.StatusConflict, "paused", err.Error())
	case errors.Is(err, importers.ErrSyncInProgress):
		respondError(c, http.StatusConflict, "in_progress", err.Error())
	case err != nil:
		respondInternalError(c, err, "sync import")
	default:
		c.JSON(http.StatusOK, report)
	}
}

// Resume handles POST /api/imports/:id/resume
func (ic *ImportsController) Resume(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ic.store.Resume(id); err != nil {
		if errors.Is(err, listimports.ErrNotFound) {
			respondNotFound(c, "import")
			return
		}
		respondInternalError(c, err, "resume import")
		return
	}
	imp, ok := ic.load(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, imp)
}

func (ic *ImportsController) load(c *gin.Context, id uint) (*entities.ListImport, bool) {
	imp, err := ic.store.Get(id)
	if errors.Is(err, listimports.ErrNotFound) {
		respondNotFound(c, "import")
		return nil, false
	}
	if err != nil {
		respondInternalError(c, err, "get import")
		return nil, false
	}
	return imp, true
}
