package disk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
	"golang.org/x/sys/unix"
)

// List opens the directory at p right away; entries are read one at a time
// while the listing is ranged over, and each entry is stat'ed when visited.
// The directory is closed once the listing ends or the consumer stops; a
// listing that is never ranged over keeps its descriptor open until it is
// garbage collected.
func (b *FileSystem) List(ctx context.Context, p data.Path) (backend.Listing, error) {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return nil, err
	}

	dir, err := os.Open(local)
	if err != nil {
		return nil, data.IOError("list", p.String(), err)
	}

	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return nil, data.IOError("list", p.String(), err)
	}
	if !info.IsDir() {
		dir.Close()
		return nil, data.IOError("list", p.String(), unix.ENOTDIR)
	}

	var consumed atomic.Bool
	return func(yield func(data.FileMeta, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(data.FileMeta{}, data.IOError("list", p.String(), data.ErrListingConsumed))
			return
		}
		defer dir.Close()

		for {
			entries, err := dir.ReadDir(1)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(data.FileMeta{}, data.IOError("list", p.String(), err))
				return
			}

			meta, err := b.entryMeta(ctx, filepath.Join(local, entries[0].Name()))
			if err != nil {
				yield(data.FileMeta{}, err)
				return
			}
			if !yield(meta, nil) {
				return
			}
		}
	}, nil
}

func (b *FileSystem) entryMeta(ctx context.Context, local string) (data.FileMeta, error) {
	p, err := b.resolver.FromLocal(local)
	if err != nil {
		return data.FileMeta{}, err
	}

	st, err := b.ring.Lstat(ctx, local).Await(ctx)
	if err != nil {
		return data.FileMeta{}, data.IOError("list", p.String(), err)
	}

	return data.FileMeta{
		Path: p,
		Size: st.Size,
	}, nil
}
