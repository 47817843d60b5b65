// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, source seeding
//	└── listimports/     # Configured list imports, seen books, sync runs
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./shelfsync.db")
//	repo := listimports.NewRepository(db.DB)
//
//	imp := &entities.ListImport{Source: "goodreads", UserID: "12345", Shelf: "to-read"}
//	err = repo.Create(imp)
//	seen, err := repo.SeenHashes(imp.ID)
//
// # Interface Implementations
//
//   - listimports.Repository: implements importers.ListImportStore and http.ImportStore
package database
