package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/shelfsync/internal/lists/registry"
)

// ListSourcesCommand prints the registered list sources.
type ListSourcesCommand struct {
	JSON bool

	Registry *registry.Registry
	Out      io.Writer
}

func NewListSourcesCommand() *ListSourcesCommand {
	return &ListSourcesCommand{}
}

func (cmd *ListSourcesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-sources", flag.ExitOnError)
	fs.BoolVar(&cmd.JSON, "json", false, "Print sources as JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-sources [-json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the external reading-list sources this build supports.\n")
	}
	return fs.Parse(args)
}

func (cmd *ListSourcesCommand) Run() error {
	if cmd.Registry == nil {
		cmd.Registry = defaultRegistry()
	}
	w := output(cmd.Out)
	sources := cmd.Registry.Sources()

	if cmd.JSON {
		return writeJSON(w, sources)
	}

	for _, s := range sources {
		fmt.Fprintf(w, "%-12s %s\n", s.Name, s.DisplayName)
		if s.Description != "" {
			fmt.Fprintf(w, "             %s\n", s.Description)
		}
		var caps []string
		if s.SupportsProfileURL {
			caps = append(caps, "profile-url")
		}
		if s.SupportsListDiscovery {
			caps = append(caps, "list-discovery")
		}
		if s.RequiresProxy {
			caps = append(caps, "needs FLARESOLVERR_URL")
		}
		if len(caps) > 0 {
			fmt.Fprintf(w, "             [%s]\n", strings.Join(caps, ", "))
		}
		if len(s.ConfigFields) > 0 {
			fmt.Fprintf(w, "             fields: %s\n", strings.Join(s.ConfigFields, ", "))
		}
	}
	return nil
}
