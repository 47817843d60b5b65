package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/shelfsync/internal/config"
	"github.com/mrlokans/shelfsync/internal/database"
	"github.com/mrlokans/shelfsync/internal/database/listimports"
	"github.com/mrlokans/shelfsync/internal/importers"
	"github.com/mrlokans/shelfsync/internal/lists/registry"
)

// ListSyncCommand syncs stored list imports once, outside the server.
type ListSyncCommand struct {
	DatabasePath string
	ImportID     uint
	All          bool
	MaxPages     int
	JSON         bool

	Registry *registry.Registry
	Out      io.Writer
}

func NewListSyncCommand() *ListSyncCommand {
	return &ListSyncCommand{}
}

func (cmd *ListSyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-sync", flag.ExitOnError)

	var id uint64
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.Uint64Var(&id, "id", 0, "Import id to sync")
	fs.BoolVar(&cmd.All, "all", false, "Sync every enabled, active import")
	fs.IntVar(&cmd.MaxPages, "max-pages", importers.DefaultMaxPages, "Page limit per import")
	fs.BoolVar(&cmd.JSON, "json", false, "Print sync reports as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-sync (-id <n> | -all) [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sync stored list imports and save newly listed books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.ImportID = uint(id)
	if cmd.ImportID == 0 && !cmd.All {
		return fmt.Errorf("one of -id or -all is required")
	}
	return nil
}

func (cmd *ListSyncCommand) Run(ctx context.Context) error {
	if cmd.Registry == nil {
		cmd.Registry = defaultRegistry()
	}
	w := output(cmd.Out)

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	syncer := importers.NewSyncer(listimports.NewRepository(db.DB), cmd.Registry, importers.SyncerOptions{MaxPages: cmd.MaxPages})

	var reports []*importers.SyncReport
	if cmd.All {
		reports, err = syncer.SyncAll(ctx)
		if err != nil {
			return err
		}
	} else {
		report, err := syncer.Sync(ctx, cmd.ImportID)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if cmd.JSON {
		return writeJSON(w, reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(w, "No imports to sync")
		return nil
	}
	for _, r := range reports {
		status := "ok"
		switch {
		case r.Paused:
			status = "paused"
		case r.Error != nil:
			status = "failed"
		}
		fmt.Fprintf(w, "import %d (%s): %s, %d pages, %d fetched, %d new\n",
			r.ImportID, r.Source, status, r.Pages, r.Fetched, r.New)
		if r.Error != nil {
			fmt.Fprintf(w, "  error: %v\n", r.Error)
		}
	}
	return nil
}
