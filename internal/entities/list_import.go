package entities

import (
	"strings"
	"time"

	"github.com/mrlokans/shelfsync/internal/lists"
)

type ListImportStatus string

const (
	ListImportActive ListImportStatus = "active"
	// ListImportPaused imports are skipped by scheduled syncs until resumed,
	// typically because the source revoked access to the list.
	ListImportPaused ListImportStatus = "paused"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ListImport is a configured external list that is synced periodically.
type ListImport struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:200" json:"name"`
	Source   string `gorm:"size:50;index" json:"source"`
	UserID   string `gorm:"size:100" json:"user_id,omitempty"`
	Username string `gorm:"size:100" json:"username,omitempty"`
	Shelf    string `gorm:"size:100" json:"shelf,omitempty"`
	ListType string `gorm:"size:20" json:"list_type,omitempty"`
	ListID   string `gorm:"size:50" json:"list_id,omitempty"`
	ListName string `gorm:"size:200" json:"list_name,omitempty"`

	Enabled       bool             `gorm:"default:true" json:"enabled"`
	Status        ListImportStatus `gorm:"size:20;default:active;index" json:"status"`
	LastError     string           `gorm:"type:text" json:"last_error,omitempty"`
	LastErrorKind string           `gorm:"size:30" json:"last_error_kind,omitempty"`
	LastSyncedAt  *time.Time       `json:"last_synced_at,omitempty"`
	BooksCount    int              `json:"books_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceConfig returns the fetcher addressing for this import.
func (i ListImport) SourceConfig() lists.SourceConfig {
	return lists.SourceConfig{
		UserID:   i.UserID,
		Username: i.Username,
		Shelf:    i.Shelf,
		ListType: i.ListType,
		ListID:   i.ListID,
		ListName: i.ListName,
	}
}

// ApplySourceConfig copies the addressing fields from cfg.
func (i *ListImport) ApplySourceConfig(cfg lists.SourceConfig) {
	i.UserID = cfg.UserID
	i.Username = cfg.Username
	i.Shelf = cfg.Shelf
	i.ListType = cfg.ListType
	i.ListID = cfg.ListID
	i.ListName = cfg.ListName
}

// ListImportBook is a book already seen in a list import.
type ListImportBook struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ImportID       uint       `gorm:"uniqueIndex:idx_import_hash;not null" json:"import_id"`
	Hash           string     `gorm:"uniqueIndex:idx_import_hash;size:200;not null" json:"hash"`
	Title          string     `gorm:"size:500" json:"title"`
	Author         string     `gorm:"size:500" json:"author"`
	ISBN           string     `gorm:"size:20" json:"isbn,omitempty"`
	Language       string     `gorm:"size:20" json:"language,omitempty"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	PageCount      int        `json:"page_count,omitempty"`
	PublishYear    int        `json:"publish_year,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	SeriesName     string     `gorm:"size:300" json:"series_name,omitempty"`
	SeriesPosition float64    `json:"series_position,omitempty"`
	CoverURL       string     `gorm:"size:1000" json:"cover_url,omitempty"`
	Genres         string     `gorm:"type:text" json:"genres,omitempty"` // Comma-separated
	SourceBookID   string     `gorm:"size:100" json:"source_book_id,omitempty"`
	SourceURL      string     `gorm:"size:1000" json:"source_url,omitempty"`
	AddedAt        *time.Time `json:"added_at,omitempty"`
	FirstSeenAt    time.Time  `json:"first_seen_at"`
}

// NewListImportBook converts a fetched book for storage.
func NewListImportBook(importID uint, b lists.ListBook, seenAt time.Time) ListImportBook {
	return ListImportBook{
		ImportID:       importID,
		Hash:           b.Hash,
		Title:          b.Title,
		Author:         b.Author,
		ISBN:           b.ISBN,
		Language:       b.Language,
		Description:    b.Description,
		PageCount:      b.PageCount,
		PublishYear:    b.PublishYear,
		Rating:         b.Rating,
		SeriesName:     b.SeriesName,
		SeriesPosition: b.SeriesPosition,
		CoverURL:       b.CoverURL,
		Genres:         strings.Join(b.Genres, ","),
		SourceBookID:   b.SourceBookID,
		SourceURL:      b.SourceURL,
		AddedAt:        b.AddedAt,
		FirstSeenAt:    seenAt,
	}
}

// ListImportRun records one sync attempt of a ListImport.
type ListImportRun struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RunID       string     `gorm:"size:36;uniqueIndex" json:"run_id"`
	ImportID    uint       `gorm:"index" json:"import_id"`
	Status      RunStatus  `gorm:"size:20" json:"status"`
	Pages       int        `json:"pages"`
	Fetched     int        `json:"fetched"`
	Added       int        `json:"added"`
	Truncated   bool       `json:"truncated"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	ErrorKind   string     `gorm:"size:30" json:"error_kind,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
