package entities

import "time"

// Source is a list provider known to the application.
type Source struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;size:50" json:"name"` // e.g., "goodreads", "openlibrary"
	DisplayName   string    `gorm:"size:100" json:"display_name"`    // e.g., "Goodreads", "Open Library"
	RequiresProxy bool      `json:"requires_proxy"`
	CreatedAt     time.Time `json:"created_at"`
}
