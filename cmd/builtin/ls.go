package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/data"
)

type LsCommand struct {
}

// Name returns the command identifier
func (ls *LsCommand) Name() string {
	return "ls"
}

// Description returns human-readable help text
func (ls *LsCommand) Description() string {
	return "List the entries of a directory"
}

// Usage returns a usage string for help (e.g. "ls -al [path]")
func (ls *LsCommand) Usage() string {
	return "ls [-l] [--json] [path]"
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	p, err := args.PathOrRoot(0)
	if err != nil {
		return failed(ls.Name(), err)
	}

	listing, err := api.List(ctx, p)
	if err != nil {
		return failed(ls.Name(), err)
	}

	metas, err := backend.Collect(listing)
	if err != nil {
		return failed(ls.Name(), err)
	}
	slices.SortFunc(metas, func(a, b data.FileMeta) int {
		return strings.Compare(a.Path.String(), b.Path.String())
	})

	if args.Bool("json") {
		encoder := json.NewEncoder(writer)
		for _, meta := range metas {
			if err := encoder.Encode(meta); err != nil {
				return failed(ls.Name(), err)
			}
		}
		return 0, nil
	}

	for _, meta := range metas {
		if args.Bool("long") {
			fmt.Fprintf(writer, "%10d  %s\n", meta.Size, meta.Path.Base())
		} else {
			fmt.Fprintln(writer, meta.Path.Base())
		}
	}
	return 0, nil
}

// GetFlags returns the flag set for this command (this is optional)
func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"long": {Name: "long", Short: "l", Type: "bool", Description: "Show the size of every entry"},
			"json": {Name: "json", Type: "bool", Description: "Print one JSON object per entry"},
		},
	}
}
