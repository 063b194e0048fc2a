package s3

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

// CreateDirAll puts a marker for p and each ancestor. Markers are
// overwritten in place, so existing directories are accepted.
func (sb *FileSystem) CreateDirAll(ctx context.Context, p data.Path) error {
	var current data.Path
	for _, segment := range p.Segments() {
		next, err := current.Child(segment)
		if err != nil {
			return err
		}
		current = next

		_, isFile, err := sb.statFile(ctx, current)
		if err != nil {
			return data.IOError("create_dir_all", current.String(), err)
		}
		if isFile {
			return data.IOError("create_dir_all", current.String(), data.ErrNotDirectory)
		}

		if err := sb.put(ctx, markerKey(current), nil, data.ContentTypeDirectory); err != nil {
			return data.IOError("create_dir_all", current.String(), err)
		}
	}

	return nil
}

// CreateFile puts an empty object at p after creating the parent markers.
func (sb *FileSystem) CreateFile(ctx context.Context, p data.Path) error {
	if p.IsRoot() {
		return data.IOError("create_file", p.String(), data.ErrIsDirectory)
	}

	if parent, ok := p.Parent(); ok {
		if err := sb.CreateDirAll(ctx, parent); err != nil {
			return err
		}
	}

	dir, err := sb.isDir(ctx, p)
	if err != nil {
		return data.IOError("create_file", p.String(), err)
	}
	if dir {
		return data.IOError("create_file", p.String(), data.ErrIsDirectory)
	}

	if err := sb.put(ctx, objectKey(p), nil, data.ContentTypeOf(p)); err != nil {
		return data.IOError("create_file", p.String(), err)
	}

	sb.log.Debug("created object '%s'", p)
	return nil
}

func (sb *FileSystem) OpenOptions(ctx context.Context, p data.Path, options data.OpenOptions) (backend.File, error) {
	info, found, err := sb.statFile(ctx, p)
	if err != nil {
		return nil, data.IOError("open", p.String(), err)
	}

	if options.Create && !found {
		if err := sb.CreateFile(ctx, p); err != nil {
			return nil, err
		}
		found = true
	}

	if !options.Read && !options.Write {
		return nil, data.IOError("open", p.String(), fs.ErrInvalid)
	}

	if !found {
		if dir, err := sb.isDir(ctx, p); err == nil && dir {
			return nil, data.IOError("open", p.String(), data.ErrIsDirectory)
		}
		return nil, data.IOError("open", p.String(), fs.ErrNotExist)
	}

	size := uint64(max(info.Size, 0))
	if options.Truncate && size > 0 {
		if err := sb.put(ctx, objectKey(p), nil, data.ContentTypeOf(p)); err != nil {
			return nil, data.IOError("open", p.String(), err)
		}
		size = 0
	}

	f := newFile(sb, p, size, options)
	sb.log.Debug("opened '%s' as %s (size %d)", p, f.id, size)
	return f, nil
}

// List streams the direct children of p. The underlying listing request
// starts when the listing is first ranged over and is cancelled when the
// consumer stops.
func (sb *FileSystem) List(ctx context.Context, p data.Path) (backend.Listing, error) {
	dir, err := sb.isDir(ctx, p)
	if err != nil {
		return nil, data.IOError("list", p.String(), err)
	}
	if !dir {
		if _, isFile, err := sb.statFile(ctx, p); err == nil && isFile {
			return nil, data.IOError("list", p.String(), data.ErrNotDirectory)
		}
		return nil, data.IOError("list", p.String(), fs.ErrNotExist)
	}

	prefix := childPrefix(p)

	var consumed atomic.Bool
	return func(yield func(data.FileMeta, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(data.FileMeta{}, data.IOError("list", p.String(), data.ErrListingConsumed))
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for object := range sb.client.ListObjects(ctx, sb.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: false,
		}) {
			if object.Err != nil {
				yield(data.FileMeta{}, data.IOError("list", p.String(), mapError(object.Err)))
				return
			}
			// the marker of p itself
			if object.Key == prefix {
				continue
			}

			child, err := p.Child(trimKey(object.Key, prefix))
			if err != nil {
				yield(data.FileMeta{}, err)
				return
			}
			if !yield(data.FileMeta{Path: child, Size: uint64(max(object.Size, 0))}, nil) {
				return
			}
		}
	}, nil
}

func (sb *FileSystem) Remove(ctx context.Context, p data.Path) error {
	_, found, err := sb.statFile(ctx, p)
	if err != nil {
		return data.IOError("remove", p.String(), err)
	}
	if !found {
		if dir, err := sb.isDir(ctx, p); err == nil && dir {
			return data.IOError("remove", p.String(), data.ErrIsDirectory)
		}
		return data.IOError("remove", p.String(), fs.ErrNotExist)
	}

	if err := sb.client.RemoveObject(ctx, sb.bucket, objectKey(p), minio.RemoveObjectOptions{}); err != nil {
		return data.IOError("remove", p.String(), mapError(err))
	}

	sb.log.Debug("removed object '%s'", p)
	return nil
}

// Copy is a server side copy of the object at from.
func (sb *FileSystem) Copy(ctx context.Context, from, to data.Path) error {
	if from.IsRoot() || to.IsRoot() {
		return data.IOError("copy", from.String(), data.ErrIsDirectory)
	}

	_, err := sb.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: sb.bucket, Object: objectKey(to)},
		minio.CopySrcOptions{Bucket: sb.bucket, Object: objectKey(from)},
	)
	if err != nil {
		return data.IOError("copy", from.String(), mapError(err))
	}

	sb.log.Debug("copied object '%s' to '%s'", from, to)
	return nil
}

// Link is not supported: object stores have no shared storage between keys.
func (sb *FileSystem) Link(ctx context.Context, from, to data.Path) error {
	return data.IOError("link", from.String(), errors.ErrUnsupported)
}
