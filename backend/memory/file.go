package memory

import (
	"context"
	"io"
	"io/fs"

	"github.com/google/uuid"
	"github.com/mwantia/asyncfs/data"
)

// File references a node directly, so it keeps working after its key was
// removed, like an unlinked local file.
type File struct {
	id   uuid.UUID
	be   *FileSystem
	path data.Path
	node *node

	read, write bool
	pos         uint64
	closed      bool
}

func newFile(mb *FileSystem, p data.Path, n *node, options data.OpenOptions) *File {
	return &File{
		id:    uuid.New(),
		be:    mb,
		path:  p,
		node:  n,
		read:  options.Read,
		write: options.Write,
		pos:   uint64(len(n.data)),
	}
}

func (f *File) Pos() uint64 {
	return f.pos
}

func (f *File) check(op string, allowed bool) error {
	if f.closed {
		return data.IOError(op, f.path.String(), data.ErrClosed)
	}
	if !allowed {
		return data.IOError(op, f.path.String(), fs.ErrPermission)
	}
	return nil
}

func (f *File) Write(ctx context.Context, p []byte) (int, error) {
	if err := f.check("write", f.write); err != nil {
		return 0, err
	}

	f.be.mu.Lock()
	defer f.be.mu.Unlock()

	end := f.pos + uint64(len(p))
	if uint64(len(f.node.data)) < end {
		grown := make([]byte, end)
		copy(grown, f.node.data)
		f.node.data = grown
	}

	copy(f.node.data[f.pos:], p)
	f.pos = end
	return len(p), nil
}

func (f *File) ReadExactAt(ctx context.Context, p []byte, pos uint64) error {
	if err := f.check("read", f.read); err != nil {
		return err
	}

	f.be.mu.RLock()
	defer f.be.mu.RUnlock()

	if len(p) == 0 {
		return nil
	}
	size := uint64(len(f.node.data))
	if pos > size || uint64(len(p)) > size-pos {
		return data.IOError("read", f.path.String(), io.ErrUnexpectedEOF)
	}

	copy(p, f.node.data[pos:])
	return nil
}

func (f *File) ReadToEndAt(ctx context.Context, pos uint64) ([]byte, error) {
	if err := f.check("read", f.read); err != nil {
		return nil, err
	}

	f.be.mu.RLock()
	defer f.be.mu.RUnlock()

	if pos >= uint64(len(f.node.data)) {
		return []byte{}, nil
	}
	return append([]byte(nil), f.node.data[pos:]...), nil
}

func (f *File) Size(ctx context.Context) (uint64, error) {
	if err := f.check("size", true); err != nil {
		return 0, err
	}

	f.be.mu.RLock()
	defer f.be.mu.RUnlock()

	return uint64(len(f.node.data)), nil
}

// Flush has nothing to persist.
func (f *File) Flush(ctx context.Context) error {
	return f.check("flush", true)
}

func (f *File) Close(ctx context.Context) error {
	if err := f.check("close", true); err != nil {
		return err
	}

	f.closed = true
	f.be.log.Debug("closed %s '%s'", f.id, f.path)
	return nil
}
