package builtin

import (
	"context"
	"io"

	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/data"
)

type MkdirCommand struct {
}

func (m *MkdirCommand) Name() string {
	return "mkdir"
}

func (m *MkdirCommand) Description() string {
	return "Create directories and their missing parents"
}

func (m *MkdirCommand) Usage() string {
	return "mkdir path..."
}

func (m *MkdirCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	return eachPath(ctx, m.Name(), args, api.CreateDirAll)
}

func (m *MkdirCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type RmCommand struct {
}

func (r *RmCommand) Name() string {
	return "rm"
}

func (r *RmCommand) Description() string {
	return "Remove files"
}

func (r *RmCommand) Usage() string {
	return "rm path..."
}

func (r *RmCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	return eachPath(ctx, r.Name(), args, api.Remove)
}

func (r *RmCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type CpCommand struct {
}

func (c *CpCommand) Name() string {
	return "cp"
}

func (c *CpCommand) Description() string {
	return "Copy a file, replacing the destination"
}

func (c *CpCommand) Usage() string {
	return "cp from to"
}

func (c *CpCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	return pathPair(ctx, c.Name(), args, api.Copy)
}

func (c *CpCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

type LnCommand struct {
}

func (l *LnCommand) Name() string {
	return "ln"
}

func (l *LnCommand) Description() string {
	return "Create a hard link"
}

func (l *LnCommand) Usage() string {
	return "ln from to"
}

func (l *LnCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	return pathPair(ctx, l.Name(), args, api.Link)
}

func (l *LnCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

func eachPath(ctx context.Context, name string, args *cmd.CommandArgs, fn func(context.Context, data.Path) error) (int, error) {
	if len(args.Args) == 0 {
		return failed(name, cmd.ErrMissingArgument)
	}

	for i := range args.Args {
		p, err := args.Path(i)
		if err != nil {
			return failed(name, err)
		}
		if err := fn(ctx, p); err != nil {
			return failed(name, err)
		}
	}
	return 0, nil
}

func pathPair(ctx context.Context, name string, args *cmd.CommandArgs, fn func(context.Context, data.Path, data.Path) error) (int, error) {
	from, err := args.Path(0)
	if err != nil {
		return failed(name, err)
	}
	to, err := args.Path(1)
	if err != nil {
		return failed(name, err)
	}

	if err := fn(ctx, from, to); err != nil {
		return failed(name, err)
	}
	return 0, nil
}
