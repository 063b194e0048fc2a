package disk

import (
	"context"
	"errors"
	"io/fs"

	"github.com/mwantia/asyncfs/data"
	"golang.org/x/sys/unix"
)

// CreateDirAll creates p and every missing ancestor below the root.
// Components that already exist must be directories.
func (b *FileSystem) CreateDirAll(ctx context.Context, p data.Path) error {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return err
	}

	// Fast path for directories that are already there
	if st, err := b.ring.Stat(ctx, local).Await(ctx); err == nil && st.IsDir() {
		return nil
	}

	var current data.Path
	for _, segment := range p.Segments() {
		next, err := current.Child(segment)
		if err != nil {
			return err
		}
		current = next

		if err := b.mkdir(ctx, current); err != nil {
			b.log.Error("failed to create directory '%s': %v", current, err)
			return data.IOError("create_dir_all", current.String(), err)
		}
	}

	b.log.Debug("created directory '%s'", p)
	return nil
}

// mkdir creates a single component, accepting an existing directory.
func (b *FileSystem) mkdir(ctx context.Context, p data.Path) error {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return err
	}

	_, err = b.ring.Mkdir(ctx, local, DefaultDirPerm).Await(ctx)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}

	st, err := b.ring.Stat(ctx, local).Await(ctx)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return unix.ENOTDIR
	}
	return nil
}

// CreateFile creates an empty file at p, creating missing parents first.
// An existing file is truncated.
func (b *FileSystem) CreateFile(ctx context.Context, p data.Path) error {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return err
	}

	if parent, ok := p.Parent(); ok {
		if err := b.CreateDirAll(ctx, parent); err != nil {
			return err
		}
	}

	fd, err := b.awaitOpen(ctx, b.ring.Open(ctx, local, unix.O_CREAT|unix.O_TRUNC|unix.O_WRONLY, DefaultPerm))
	if err != nil {
		return data.IOError("create_file", p.String(), err)
	}

	if _, err := b.ring.Close(ctx, fd).Await(ctx); err != nil {
		return data.IOError("create_file", p.String(), err)
	}

	b.log.Debug("created file '%s'", p)
	return nil
}
