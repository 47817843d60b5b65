package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./shelfsync.db"
)

// Default upstream endpoints
const (
	DefaultGoodreadsBaseURL   = "https://www.goodreads.com"
	DefaultStoryGraphBaseURL  = "https://app.thestorygraph.com"
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"
	DefaultCoversBaseURL      = "https://covers.openlibrary.org"
)
