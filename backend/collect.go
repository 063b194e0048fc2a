package backend

import (
	"context"

	"github.com/mwantia/asyncfs/data"
)

// Collect drains a listing into a slice, stopping at the first error.
func Collect(listing Listing) ([]data.FileMeta, error) {
	var metas []data.FileMeta
	for meta, err := range listing {
		if err != nil {
			return metas, err
		}
		metas = append(metas, meta)
	}

	return metas, nil
}

// ReadAll opens path read-only and returns its whole content.
func ReadAll(ctx context.Context, fs FileSystem, path data.Path) ([]byte, error) {
	f, err := fs.OpenOptions(ctx, path, data.OpenOptions{Read: true})
	if err != nil {
		return nil, err
	}

	content, err := f.ReadToEndAt(ctx, 0)
	if cerr := f.Close(ctx); err == nil {
		err = cerr
	}
	return content, err
}

// WriteAll replaces the content of path, creating it if needed.
func WriteAll(ctx context.Context, fs FileSystem, path data.Path, content []byte) error {
	f, err := fs.OpenOptions(ctx, path, data.OpenOptions{Write: true, Create: true, Truncate: true})
	if err != nil {
		return err
	}

	if _, err := f.Write(ctx, content); err != nil {
		_ = f.Close(ctx)
		return err
	}
	return f.Close(ctx)
}
