package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/shelfsync/internal/lists/registry"
)

// ListShelvesCommand prints the shelves and lists a user has at a source.
type ListShelvesCommand struct {
	sourceFlags
	JSON bool

	Registry *registry.Registry
	Out      io.Writer
}

func NewListShelvesCommand() *ListShelvesCommand {
	return &ListShelvesCommand{}
}

func (cmd *ListShelvesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-shelves", flag.ExitOnError)

	cmd.register(fs)
	fs.BoolVar(&cmd.JSON, "json", false, "Print lists as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-shelves -source <name> [-user|-username] [-json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the shelves a user has. Built-in shelves are always included.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Source == "" && cmd.ProfileURL == "" {
		return fmt.Errorf("required flag -source or -url not provided")
	}
	return nil
}

func (cmd *ListShelvesCommand) Run(ctx context.Context) error {
	if cmd.Registry == nil {
		cmd.Registry = defaultRegistry()
	}
	w := output(cmd.Out)

	source, cfg, err := cmd.resolve(cmd.Registry)
	if err != nil {
		return err
	}

	available, err := cmd.Registry.AvailableLists(ctx, source, cfg)
	if err != nil {
		return err
	}

	if cmd.JSON {
		return writeJSON(w, available)
	}
	for _, l := range available {
		fmt.Fprintf(w, "%-24s %s\n", l.ID, l.Name)
	}
	return nil
}
