package disk

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/ring"
)

// readChunk is the buffer size used by ReadToEndAt per submission.
const readChunk = 64 * 1024

// File is a positional handle over a local descriptor. Writes go to the
// cursor, which starts at the size the file had when it was opened and is
// only moved by the handle's own writes.
//
// Buffers passed to Write and ReadExactAt belong to the ring until the
// submission completes; when ctx ends first they may still be used
// after the call returned.
type File struct {
	id   uuid.UUID
	ring *ring.Ring
	be   *FileSystem
	path data.Path

	fd     int
	pos    uint64
	closed bool
}

func newFile(b *FileSystem, p data.Path, fd int, size uint64) *File {
	return &File{
		id:   uuid.New(),
		ring: b.ring,
		be:   b,
		path: p,
		fd:   fd,
		pos:  size,
	}
}

func (f *File) ID() uuid.UUID {
	return f.id
}

func (f *File) Path() data.Path {
	return f.path
}

func (f *File) Pos() uint64 {
	return f.pos
}

// Write writes all of p at the cursor, resubmitting after short writes.
func (f *File) Write(ctx context.Context, p []byte) (int, error) {
	if f.closed {
		return 0, data.IOError("write", f.path.String(), data.ErrClosed)
	}

	written := 0
	for written < len(p) {
		n, err := f.ring.WriteAt(ctx, f.fd, p[written:], int64(f.pos)).Await(ctx)
		if err != nil {
			return written, data.IOError("write", f.path.String(), err)
		}
		if n == 0 {
			return written, data.IOError("write", f.path.String(), io.ErrShortWrite)
		}

		written += n
		f.pos += uint64(n)
	}

	return written, nil
}

// ReadExactAt fills p from pos. A file ending before p is full yields io.ErrUnexpectedEOF.
func (f *File) ReadExactAt(ctx context.Context, p []byte, pos uint64) error {
	if f.closed {
		return data.IOError("read", f.path.String(), data.ErrClosed)
	}

	read := 0
	for read < len(p) {
		n, err := f.ring.ReadAt(ctx, f.fd, p[read:], int64(pos)+int64(read)).Await(ctx)
		if err != nil {
			return data.IOError("read", f.path.String(), err)
		}
		if n == 0 {
			return data.IOError("read", f.path.String(), io.ErrUnexpectedEOF)
		}
		read += n
	}

	return nil
}

// ReadToEndAt reads from pos until the substrate reports end of file.
func (f *File) ReadToEndAt(ctx context.Context, pos uint64) ([]byte, error) {
	if f.closed {
		return nil, data.IOError("read", f.path.String(), data.ErrClosed)
	}

	size, err := f.Size(ctx)
	if err != nil {
		return nil, err
	}

	var out []byte
	if size > pos {
		out = make([]byte, 0, size-pos)
	} else {
		out = []byte{}
	}

	chunk := make([]byte, readChunk)
	for off := pos; ; {
		n, err := f.ring.ReadAt(ctx, f.fd, chunk, int64(off)).Await(ctx)
		if err != nil {
			return nil, data.IOError("read", f.path.String(), err)
		}
		if n == 0 {
			return out, nil
		}

		out = append(out, chunk[:n]...)
		off += uint64(n)
	}
}

func (f *File) Size(ctx context.Context) (uint64, error) {
	if f.closed {
		return 0, data.IOError("size", f.path.String(), data.ErrClosed)
	}

	st, err := f.ring.Fstat(ctx, f.fd).Await(ctx)
	if err != nil {
		return 0, data.IOError("size", f.path.String(), err)
	}
	return st.Size, nil
}

// Flush persists written data through fsync.
func (f *File) Flush(ctx context.Context) error {
	if f.closed {
		return data.IOError("flush", f.path.String(), data.ErrClosed)
	}

	if _, err := f.ring.Fsync(ctx, f.fd).Await(ctx); err != nil {
		return data.IOError("flush", f.path.String(), err)
	}
	return nil
}

// Close releases the descriptor. Closing twice yields data.ErrClosed.
func (f *File) Close(ctx context.Context) error {
	if f.closed {
		return data.IOError("close", f.path.String(), data.ErrClosed)
	}
	f.closed = true

	if _, err := f.ring.Close(ctx, f.fd).Await(ctx); err != nil {
		return data.IOError("close", f.path.String(), err)
	}

	f.be.log.Debug("closed %s '%s'", f.id, f.path)
	return nil
}
