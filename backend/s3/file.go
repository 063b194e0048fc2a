package s3

import (
	"context"
	"io"
	"io/fs"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/mwantia/asyncfs/data"
)

// File reads with ranged requests until the first write. Writes are applied
// to a local copy of the object that is uploaded on Flush and Close.
type File struct {
	id   uuid.UUID
	be   *FileSystem
	path data.Path

	read, write bool
	size        uint64
	pos         uint64

	buffer []byte
	loaded bool
	dirty  bool
	closed bool
}

func newFile(sb *FileSystem, p data.Path, size uint64, options data.OpenOptions) *File {
	return &File{
		id:    uuid.New(),
		be:    sb,
		path:  p,
		read:  options.Read,
		write: options.Write,
		size:  size,
		pos:   size,
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

// load fetches the whole object once for read-modify-write.
func (f *File) load(ctx context.Context) error {
	if f.loaded {
		return nil
	}

	if f.size > 0 {
		content, err := f.get(ctx, 0, 0)
		if err != nil {
			return err
		}
		f.buffer = content
	}

	f.loaded = true
	return nil
}

// get reads length bytes from pos, or everything after pos if length is 0.
func (f *File) get(ctx context.Context, pos, length uint64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	switch {
	case length > 0:
		if err := opts.SetRange(int64(pos), int64(pos+length)-1); err != nil {
			return nil, err
		}
	case pos > 0:
		if err := opts.SetRange(int64(pos), 0); err != nil {
			return nil, err
		}
	}

	object, err := f.be.client.GetObject(ctx, f.be.bucket, objectKey(f.path), opts)
	if err != nil {
		return nil, mapError(err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, mapError(err)
	}
	return content, nil
}

func (f *File) Write(ctx context.Context, p []byte) (int, error) {
	if err := f.check("write", f.write); err != nil {
		return 0, err
	}
	if err := f.load(ctx); err != nil {
		return 0, data.IOError("write", f.path.String(), err)
	}

	end := f.pos + uint64(len(p))
	if uint64(len(f.buffer)) < end {
		grown := make([]byte, end)
		copy(grown, f.buffer)
		f.buffer = grown
	}

	copy(f.buffer[f.pos:], p)
	f.pos = end
	f.size = uint64(len(f.buffer))
	f.dirty = true
	return len(p), nil
}

func (f *File) ReadExactAt(ctx context.Context, p []byte, pos uint64) error {
	if err := f.check("read", f.read); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	if pos > f.size || uint64(len(p)) > f.size-pos {
		return data.IOError("read", f.path.String(), io.ErrUnexpectedEOF)
	}

	if f.loaded {
		copy(p, f.buffer[pos:])
		return nil
	}

	content, err := f.get(ctx, pos, uint64(len(p)))
	if err != nil {
		return data.IOError("read", f.path.String(), err)
	}
	if len(content) < len(p) {
		return data.IOError("read", f.path.String(), io.ErrUnexpectedEOF)
	}

	copy(p, content)
	return nil
}

func (f *File) ReadToEndAt(ctx context.Context, pos uint64) ([]byte, error) {
	if err := f.check("read", f.read); err != nil {
		return nil, err
	}
	if pos >= f.size {
		return []byte{}, nil
	}

	if f.loaded {
		return append([]byte(nil), f.buffer[pos:]...), nil
	}

	content, err := f.get(ctx, pos, 0)
	if err != nil {
		return nil, data.IOError("read", f.path.String(), err)
	}
	return content, nil
}

// Size reports the local copy while it has unflushed writes, the stored
// object otherwise.
func (f *File) Size(ctx context.Context) (uint64, error) {
	if err := f.check("size", true); err != nil {
		return 0, err
	}
	if f.loaded {
		return f.size, nil
	}

	info, err := f.be.client.StatObject(ctx, f.be.bucket, objectKey(f.path), minio.StatObjectOptions{})
	if err != nil {
		return 0, data.IOError("size", f.path.String(), mapError(err))
	}

	f.size = uint64(max(info.Size, 0))
	return f.size, nil
}

// Flush uploads the local copy if it has been written to.
func (f *File) Flush(ctx context.Context) error {
	if err := f.check("flush", true); err != nil {
		return err
	}
	if !f.dirty {
		return nil
	}

	if err := f.be.put(ctx, objectKey(f.path), f.buffer, data.ContentTypeOf(f.path)); err != nil {
		return data.IOError("flush", f.path.String(), err)
	}

	f.dirty = false
	f.be.log.Debug("uploaded %d bytes to '%s'", len(f.buffer), f.path)
	return nil
}

func (f *File) Close(ctx context.Context) error {
	if err := f.Flush(ctx); err != nil {
		return err
	}

	f.closed = true
	f.buffer = nil
	return nil
}
