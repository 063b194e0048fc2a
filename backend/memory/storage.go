package memory

import (
	"context"
	"io/fs"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

func (mb *FileSystem) CreateDirAll(ctx context.Context, p data.Path) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	return mb.createDirAll(p)
}

// createDirAll expects mu to be held.
func (mb *FileSystem) createDirAll(p data.Path) error {
	if mb.closed {
		return data.IOError("create_dir_all", p.String(), data.ErrClosed)
	}

	var current data.Path
	for _, segment := range p.Segments() {
		next, err := current.Child(segment)
		if err != nil {
			return err
		}
		current = next

		n, ok := mb.nodes.Get(current.String())
		if !ok {
			mb.nodes.Set(current.String(), &node{dir: true})
			continue
		}
		if !n.dir {
			return data.IOError("create_dir_all", current.String(), data.ErrNotDirectory)
		}
	}

	return nil
}

// CreateFile creates an empty file at p, creating missing parents first.
// An existing file is truncated, which is visible through all of its links.
func (mb *FileSystem) CreateFile(ctx context.Context, p data.Path) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	return mb.createFile(p)
}

func (mb *FileSystem) createFile(p data.Path) error {
	if parent, ok := p.Parent(); ok {
		if err := mb.createDirAll(parent); err != nil {
			return err
		}
	}
	if mb.closed {
		return data.IOError("create_file", p.String(), data.ErrClosed)
	}

	n, ok := mb.nodes.Get(p.String())
	switch {
	case !ok:
		mb.nodes.Set(p.String(), &node{})
	case n.dir:
		return data.IOError("create_file", p.String(), data.ErrIsDirectory)
	default:
		n.data = nil
	}

	mb.log.Debug("created file '%s'", p)
	return nil
}

// OpenOptions mirrors the local backend: a missing file is created before
// the access mode is validated.
func (mb *FileSystem) OpenOptions(ctx context.Context, p data.Path, options data.OpenOptions) (backend.File, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if options.Create && !mb.closed {
		if _, ok := mb.nodes.Get(p.String()); !ok {
			if err := mb.createFile(p); err != nil {
				return nil, err
			}
		}
	}

	if !options.Read && !options.Write {
		return nil, data.IOError("open", p.String(), fs.ErrInvalid)
	}

	n, err := mb.lookup("open", p)
	if err != nil {
		return nil, err
	}
	if n.dir {
		return nil, data.IOError("open", p.String(), data.ErrIsDirectory)
	}
	if options.Truncate {
		n.data = nil
	}

	f := newFile(mb, p, n, options)
	mb.log.Debug("opened '%s' as %s (size %d)", p, f.id, len(n.data))
	return f, nil
}

// Remove deletes the key at p. Other links to the same file stay intact.
func (mb *FileSystem) Remove(ctx context.Context, p data.Path) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	n, err := mb.lookup("remove", p)
	if err != nil {
		return err
	}
	if n.dir {
		return data.IOError("remove", p.String(), data.ErrIsDirectory)
	}

	mb.nodes.Delete(p.String())
	mb.log.Debug("removed '%s'", p)
	return nil
}

// Copy writes the current bytes of from into to. An existing destination
// is overwritten in place.
func (mb *FileSystem) Copy(ctx context.Context, from, to data.Path) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	src, err := mb.lookup("copy", from)
	if err != nil {
		return err
	}
	if src.dir {
		return data.IOError("copy", from.String(), data.ErrIsDirectory)
	}

	content := append([]byte(nil), src.data...)

	dst, ok := mb.nodes.Get(to.String())
	switch {
	case !ok:
		if err := mb.parentDir("copy", to); err != nil {
			return err
		}
		mb.nodes.Set(to.String(), &node{data: content})
	case dst.dir:
		return data.IOError("copy", to.String(), data.ErrIsDirectory)
	default:
		dst.data = content
	}

	mb.log.Debug("copied '%s' to '%s'", from, to)
	return nil
}

// Link adds to as a second key for the file at from.
func (mb *FileSystem) Link(ctx context.Context, from, to data.Path) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	src, err := mb.lookup("link", from)
	if err != nil {
		return err
	}
	if src.dir {
		return data.IOError("link", from.String(), data.ErrIsDirectory)
	}
	if _, exists := mb.nodes.Get(to.String()); exists {
		return data.IOError("link", to.String(), fs.ErrExist)
	}
	if err := mb.parentDir("link", to); err != nil {
		return err
	}

	mb.nodes.Set(to.String(), src)
	mb.log.Debug("linked '%s' to '%s'", to, from)
	return nil
}
