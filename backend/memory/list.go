package memory

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

// List checks p right away and then walks the btree one child per step. The
// lock is only held while seeking the next child, never while yielding.
func (mb *FileSystem) List(ctx context.Context, p data.Path) (backend.Listing, error) {
	mb.mu.RLock()
	n, err := mb.lookup("list", p)
	mb.mu.RUnlock()

	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, data.IOError("list", p.String(), data.ErrNotDirectory)
	}

	prefix := p.String()
	if prefix != "" {
		prefix += data.Delimiter
	}

	var consumed atomic.Bool
	return func(yield func(data.FileMeta, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(data.FileMeta{}, data.IOError("list", p.String(), data.ErrListingConsumed))
			return
		}

		pivot := prefix
		for {
			if err := ctx.Err(); err != nil {
				yield(data.FileMeta{}, data.IOError("list", p.String(), err))
				return
			}

			key, meta, ok := mb.nextChild(prefix, pivot)
			if !ok {
				return
			}
			if !yield(meta, nil) {
				return
			}
			// smallest key after the one just visited
			pivot = key + "\x00"
		}
	}, nil
}

func (mb *FileSystem) nextChild(prefix, pivot string) (string, data.FileMeta, bool) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	var (
		found string
		meta  data.FileMeta
		ok    bool
	)
	mb.nodes.Ascend(pivot, func(key string, n *node) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}

		rest := key[len(prefix):]
		if rest == "" || strings.Contains(rest, data.Delimiter) {
			return true
		}

		found, ok = key, true
		meta = data.FileMeta{
			Path: data.MustParsePath(key),
			Size: uint64(len(n.data)),
		}
		return false
	})

	return found, meta, ok
}
