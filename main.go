package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/shelfsync/internal/cli"
	"github.com/mrlokans/shelfsync/internal/config"
	"github.com/mrlokans/shelfsync/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// contextCommand is implemented by every CLI subcommand that talks to a source.
type contextCommand interface {
	ParseFlags(args []string) error
	Run(ctx context.Context) error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list-sources":
		cmd := cli.NewListSourcesCommand()
		if err := cmd.ParseFlags(args); err != nil {
			exitWithError(err)
		}
		if err := cmd.Run(); err != nil {
			exitWithError(err)
		}

	case "list-fetch":
		runCommand(cli.NewListFetchCommand(), args)

	case "list-shelves":
		runCommand(cli.NewListShelvesCommand(), args)

	case "list-validate":
		runCommand(cli.NewListValidateCommand(), args)

	case "list-sync":
		runCommand(cli.NewListSyncCommand(), args)

	case "version":
		fmt.Printf("shelfsync %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCommand(cmd contextCommand, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		exitWithError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		stop()
		exitWithError(err)
	}
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list-sources   Show registered list sources and their capabilities\n")
	fmt.Fprintf(os.Stderr, "  list-fetch     Fetch books from a shelf or list\n")
	fmt.Fprintf(os.Stderr, "  list-shelves   Show the shelves and lists a user has on a source\n")
	fmt.Fprintf(os.Stderr, "  list-validate  Check that a source configuration is usable\n")
	fmt.Fprintf(os.Stderr, "  list-sync      Sync stored list imports into the database\n")
	fmt.Fprintf(os.Stderr, "  version        Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
