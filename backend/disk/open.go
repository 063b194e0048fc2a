package disk

import (
	"context"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
	"golang.org/x/sys/unix"
)

// OpenOptions opens p with the given options. With Create set and nothing
// reachable at p (symlinks followed, any stat failure counts as absent), the
// file and its parents are created before the flags are checked, so an
// invalid combination can still leave an empty file behind.
func (b *FileSystem) OpenOptions(ctx context.Context, p data.Path, options data.OpenOptions) (backend.File, error) {
	local, err := b.resolver.ToLocal(p)
	if err != nil {
		return nil, err
	}

	if options.Create {
		if _, err := b.ring.Stat(ctx, local).Await(ctx); err != nil {
			if err := b.CreateFile(ctx, p); err != nil {
				return nil, err
			}
		}
	}

	flags, err := openFlags(options)
	if err != nil {
		return nil, data.IOError("open", p.String(), err)
	}

	fd, err := b.awaitOpen(ctx, b.ring.Open(ctx, local, flags, DefaultPerm))
	if err != nil {
		return nil, data.IOError("open", p.String(), err)
	}

	st, err := b.ring.Fstat(ctx, fd).Await(ctx)
	if err != nil {
		b.closeFd(ctx, fd)
		return nil, data.IOError("open", p.String(), err)
	}
	if st.IsDir() {
		b.closeFd(ctx, fd)
		return nil, data.IOError("open", p.String(), data.ErrIsDirectory)
	}

	f := newFile(b, p, fd, st.Size)
	b.log.Debug("opened '%s' as %s (fd %d, size %d)", p, f.id, fd, st.Size)
	return f, nil
}

// openFlags maps options one to one onto open(2) flags.
func openFlags(options data.OpenOptions) (int, error) {
	var flags int
	switch {
	case options.Read && options.Write:
		flags = unix.O_RDWR
	case options.Write:
		flags = unix.O_WRONLY
	case options.Read:
		flags = unix.O_RDONLY
	default:
		return 0, unix.EINVAL
	}

	if options.Create {
		flags |= unix.O_CREAT
	}
	if options.Truncate {
		flags |= unix.O_TRUNC
	}
	return flags, nil
}
