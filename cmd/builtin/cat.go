package builtin

import (
	"context"
	"io"

	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/data"
)

type CatCommand struct {
}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print the content of files"
}

func (c *CatCommand) Usage() string {
	return "cat [-o offset] path..."
}

func (c *CatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return failed(c.Name(), cmd.ErrMissingArgument)
	}

	offset := args.Int("offset")
	if offset < 0 {
		return failed(c.Name(), cmd.ErrInvalidValue)
	}

	for i := range args.Args {
		p, err := args.Path(i)
		if err != nil {
			return failed(c.Name(), err)
		}

		if err := c.cat(ctx, api, p, uint64(offset), writer); err != nil {
			return failed(c.Name(), err)
		}
	}
	return 0, nil
}

func (c *CatCommand) cat(ctx context.Context, api cmd.API, p data.Path, offset uint64, writer io.Writer) error {
	f, err := api.OpenOptions(ctx, p, data.OpenOptions{Read: true})
	if err != nil {
		return err
	}
	defer f.Close(ctx)

	content, err := f.ReadToEndAt(ctx, offset)
	if err != nil {
		return err
	}

	_, err = writer.Write(content)
	return err
}

func (c *CatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"offset": {Name: "offset", Short: "o", Type: "int", Default: int64(0), Description: "Start reading at this byte"},
		},
	}
}
