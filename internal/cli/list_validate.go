package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/shelfsync/internal/lists/registry"
)

// ListValidateCommand checks that a list can be read.
type ListValidateCommand struct {
	sourceFlags
	JSON bool

	Registry *registry.Registry
	Out      io.Writer
}

func NewListValidateCommand() *ListValidateCommand {
	return &ListValidateCommand{}
}

func (cmd *ListValidateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list-validate", flag.ExitOnError)

	cmd.register(fs)
	fs.BoolVar(&cmd.JSON, "json", false, "Print the validation result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list-validate -source <name> [addressing flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check a list config and probe the source. Exits non-zero when invalid.\n\n")
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

func (cmd *ListValidateCommand) Run(ctx context.Context) error {
	if cmd.Registry == nil {
		cmd.Registry = defaultRegistry()
	}
	w := output(cmd.Out)

	source, cfg, err := cmd.resolve(cmd.Registry)
	if err != nil {
		return err
	}

	result, err := cmd.Registry.Validate(ctx, source, cfg)
	if err != nil {
		return err
	}

	if cmd.JSON {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(w, "%s: config is valid\n", source)
	}

	if !result.Valid {
		if result.Error == nil {
			return fmt.Errorf("%s: config is not valid", source)
		}
		return fmt.Errorf("%s (%s): %w", source, result.Error.Kind, result.Error)
	}
	return nil
}
