package mount

import (
	"context"
	"errors"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

func (t *Table) FileSystem() data.FileSystemTag {
	return data.FileSystemMount
}

func (t *Table) OpenOptions(ctx context.Context, path data.Path, options data.OpenOptions) (backend.File, error) {
	e, rel, err := t.resolve("open", path)
	if err != nil {
		return nil, err
	}
	return e.fsys.OpenOptions(ctx, rel, options)
}

func (t *Table) CreateFile(ctx context.Context, path data.Path) error {
	e, rel, err := t.resolve("create_file", path)
	if err != nil {
		return err
	}
	return e.fsys.CreateFile(ctx, rel)
}

func (t *Table) CreateDirAll(ctx context.Context, path data.Path) error {
	e, rel, err := t.resolve("create_dir_all", path)
	if err != nil {
		return err
	}
	return e.fsys.CreateDirAll(ctx, rel)
}

// List lists path on its backend and adds the mount points directly below
// path that the backend does not report itself.
func (t *Table) List(ctx context.Context, path data.Path) (backend.Listing, error) {
	e, rel, err := t.resolve("list", path)
	if err != nil {
		return nil, err
	}

	listing, err := e.fsys.List(ctx, rel)
	if err != nil {
		return nil, err
	}
	mountPoint := e.info.Path
	children := t.childMounts(path)

	return func(yield func(data.FileMeta, error) bool) {
		seen := make(map[data.Path]bool, len(children))
		for meta, err := range listing {
			if err != nil {
				yield(data.FileMeta{}, err)
				return
			}

			meta.Path = absolute(mountPoint, meta.Path)
			seen[meta.Path] = true
			if !yield(meta, nil) {
				return
			}
		}

		for _, child := range children {
			if seen[child] {
				continue
			}
			if !yield(data.FileMeta{Path: child}, nil) {
				return
			}
		}
	}, nil
}

func (t *Table) Remove(ctx context.Context, path data.Path) error {
	e, rel, err := t.resolve("remove", path)
	if err != nil {
		return err
	}
	return e.fsys.Remove(ctx, rel)
}

// Copy stays on one backend when both paths share a mount point and streams
// the content through memory otherwise.
func (t *Table) Copy(ctx context.Context, from, to data.Path) error {
	src, srcRel, err := t.resolve("copy", from)
	if err != nil {
		return err
	}
	dst, dstRel, err := t.resolve("copy", to)
	if err != nil {
		return err
	}

	if src == dst {
		return src.fsys.Copy(ctx, srcRel, dstRel)
	}

	content, err := backend.ReadAll(ctx, src.fsys, srcRel)
	if err != nil {
		return err
	}
	return backend.WriteAll(ctx, dst.fsys, dstRel, content)
}

func (t *Table) Link(ctx context.Context, from, to data.Path) error {
	src, srcRel, err := t.resolve("link", from)
	if err != nil {
		return err
	}
	dst, dstRel, err := t.resolve("link", to)
	if err != nil {
		return err
	}

	if src != dst {
		return data.IOError("link", to.String(), ErrCrossMount)
	}
	return src.fsys.Link(ctx, srcRel, dstRel)
}

// Close closes every mounted backend. The table cannot be used afterwards.
func (t *Table) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.closed = true
	mounts := t.mounts
	t.mounts = make(map[string]*entry)
	t.mu.Unlock()

	var errs []error
	for _, e := range mounts {
		errs = append(errs, e.fsys.Close(ctx))
	}
	return errors.Join(errs...)
}
