// Package importers keeps configured external reading lists in sync with
// the local database.
//
// # Flow
//
//	ListImport → BookSource.Validate → BookSource.Fetch (page loop) → dedup → diff with SeenHashes → SaveNewBooks
//
// A Syncer never deletes books: a book removed from a remote list stays
// stored. Access-revoked failures pause the import so the scheduler skips
// it until Resume; every other failure is recorded and retried on the next
// run.
//
// # Example Usage
//
//	syncer := importers.NewSyncer(repo, registry, importers.SyncerOptions{MaxPages: 50})
//	report, err := syncer.Sync(ctx, importID)
package importers
