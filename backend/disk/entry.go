package disk

import (
	"context"
	"io"
	"os"

	"github.com/mwantia/asyncfs/data"
)

// Remove unlinks the file at p. Directories are not removed.
func (b *FileSystem) Remove(ctx context.Context, p data.Path) error {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return err
	}

	if _, err := b.ring.Unlink(ctx, local).Await(ctx); err != nil {
		return data.IOError("remove", p.String(), err)
	}

	b.log.Debug("removed '%s'", p)
	return nil
}

// Copy replaces to with the current bytes of from. It runs synchronously on
// the calling goroutine.
func (b *FileSystem) Copy(ctx context.Context, from, to data.Path) error {
	src, err := b.resolver.ToLocal(from)
	if err != nil {
		return err
	}
	dst, err := b.resolver.ToLocal(to)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return data.IOError("copy", from.String(), err)
	}

	if err := copyFile(src, dst); err != nil {
		return data.IOError("copy", from.String(), err)
	}

	b.log.Debug("copied '%s' to '%s'", from, to)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return data.ErrIsDirectory
	}

	// Copying onto the same inode would truncate the source first
	if existing, err := os.Stat(dst); err == nil && os.SameFile(info, existing) {
		return nil
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Link creates to as a hard link to from. It runs synchronously on the
// calling goroutine.
func (b *FileSystem) Link(ctx context.Context, from, to data.Path) error {
	src, err := b.resolver.ToLocal(from)
	if err != nil {
		return err
	}
	dst, err := b.resolver.ToLocal(to)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return data.IOError("link", from.String(), err)
	}

	if err := os.Link(src, dst); err != nil {
		return data.IOError("link", from.String(), err)
	}

	b.log.Debug("linked '%s' to '%s'", to, from)
	return nil
}
