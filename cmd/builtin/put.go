package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/data"
)

// PutCommand writes its arguments into a file, replacing or appending.
type PutCommand struct {
}

func (p *PutCommand) Name() string {
	return "put"
}

func (p *PutCommand) Description() string {
	return "Write text into a file, creating it if needed"
}

func (p *PutCommand) Usage() string {
	return "put [-a] [-n] [-v] path text..."
}

func (p *PutCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	path, err := args.Path(0)
	if err != nil {
		return failed(p.Name(), err)
	}

	content := strings.Join(args.Args[1:], " ")
	if !args.Bool("no-newline") {
		content += "\n"
	}

	options := data.OpenOptions{Write: true, Create: true, Truncate: !args.Bool("append")}
	f, err := api.OpenOptions(ctx, path, options)
	if err != nil {
		return failed(p.Name(), err)
	}

	n, err := f.Write(ctx, []byte(content))
	if err != nil {
		_ = f.Close(ctx)
		return failed(p.Name(), err)
	}
	if err := f.Close(ctx); err != nil {
		return failed(p.Name(), err)
	}

	if args.Bool("verbose") {
		fmt.Fprintf(writer, "wrote %d bytes to %s\n", n, path)
	}
	return 0, nil
}

func (p *PutCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"append":     {Name: "append", Short: "a", Type: "bool", Description: "Append instead of replacing the content"},
			"no-newline": {Name: "no-newline", Short: "n", Type: "bool", Description: "Do not add a trailing newline"},
			"verbose":    {Name: "verbose", Short: "v", Type: "bool", Description: "Report the number of bytes written"},
		},
	}
}

// TouchCommand creates empty files and leaves existing ones untouched.
type TouchCommand struct {
}

func (t *TouchCommand) Name() string {
	return "touch"
}

func (t *TouchCommand) Description() string {
	return "Create empty files"
}

func (t *TouchCommand) Usage() string {
	return "touch path..."
}

func (t *TouchCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return failed(t.Name(), cmd.ErrMissingArgument)
	}

	for i := range args.Args {
		path, err := args.Path(i)
		if err != nil {
			return failed(t.Name(), err)
		}

		f, err := api.OpenOptions(ctx, path, data.OpenOptions{Write: true, Create: true})
		if err != nil {
			return failed(t.Name(), err)
		}
		if err := f.Close(ctx); err != nil {
			return failed(t.Name(), err)
		}
	}
	return 0, nil
}

func (t *TouchCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
