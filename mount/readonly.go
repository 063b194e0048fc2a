package mount

import (
	"context"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

// ReadOnly wraps a backend so that reads pass through and every mutation
// fails with ErrReadOnly.
func ReadOnly(fsys backend.FileSystem) backend.FileSystem {
	return &readOnly{fsys: fsys}
}

type readOnly struct {
	fsys backend.FileSystem
}

func (ro *readOnly) FileSystem() data.FileSystemTag {
	return ro.fsys.FileSystem()
}

func (ro *readOnly) OpenOptions(ctx context.Context, path data.Path, options data.OpenOptions) (backend.File, error) {
	if options.Write || options.Create || options.Truncate {
		return nil, data.IOError("open", path.String(), ErrReadOnly)
	}
	return ro.fsys.OpenOptions(ctx, path, options)
}

func (ro *readOnly) CreateFile(ctx context.Context, path data.Path) error {
	return data.IOError("create_file", path.String(), ErrReadOnly)
}

func (ro *readOnly) CreateDirAll(ctx context.Context, path data.Path) error {
	return data.IOError("create_dir_all", path.String(), ErrReadOnly)
}

func (ro *readOnly) List(ctx context.Context, path data.Path) (backend.Listing, error) {
	return ro.fsys.List(ctx, path)
}

func (ro *readOnly) Remove(ctx context.Context, path data.Path) error {
	return data.IOError("remove", path.String(), ErrReadOnly)
}

func (ro *readOnly) Copy(ctx context.Context, from, to data.Path) error {
	return data.IOError("copy", to.String(), ErrReadOnly)
}

func (ro *readOnly) Link(ctx context.Context, from, to data.Path) error {
	return data.IOError("link", to.String(), ErrReadOnly)
}

func (ro *readOnly) Close(ctx context.Context) error {
	return ro.fsys.Close(ctx)
}
