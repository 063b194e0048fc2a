package ring

import (
	"context"

	"golang.org/x/sys/unix"
)

type Opcode uint8

const (
	OpOpen Opcode = iota + 1
	OpClose
	OpFstat
	OpStat
	OpLstat
	OpMkdir
	OpUnlink
	OpRead
	OpWrite
	OpFsync
)

func (op Opcode) String() string {
	switch op {
	case OpOpen:
		return "open"
	case OpClose:
		return "close"
	case OpFstat:
		return "fstat"
	case OpStat:
		return "stat"
	case OpLstat:
		return "lstat"
	case OpMkdir:
		return "mkdir"
	case OpUnlink:
		return "unlink"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFsync:
		return "fsync"
	default:
		return "unknown"
	}
}

// Stat is the subset of a status query the backends consume.
type Stat struct {
	Size uint64
	Mode uint32
}

func (s Stat) IsDir() bool {
	return s.Mode&unix.S_IFMT == unix.S_IFDIR
}

func statFrom(st *unix.Stat_t) Stat {
	return Stat{
		Size: uint64(st.Size),
		Mode: uint32(st.Mode),
	}
}

// ignoringEINTR retries fn while it is interrupted by a signal.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}

// Open submits open(2). O_CLOEXEC is always added; the result is a descriptor.
func (r *Ring) Open(ctx context.Context, path string, flags int, perm uint32) *Future[int] {
	return submit(ctx, r, OpOpen, path, func() (int, error) {
		var fd int
		err := ignoringEINTR(func() (err error) {
			fd, err = unix.Open(path, flags|unix.O_CLOEXEC, perm)
			return err
		})
		return fd, err
	})
}

func (r *Ring) Close(ctx context.Context, fd int) *Future[struct{}] {
	return submit(ctx, r, OpClose, "", func() (struct{}, error) {
		return struct{}{}, unix.Close(fd)
	})
}

func (r *Ring) Fstat(ctx context.Context, fd int) *Future[Stat] {
	return submit(ctx, r, OpFstat, "", func() (Stat, error) {
		var st unix.Stat_t
		if err := ignoringEINTR(func() error { return unix.Fstat(fd, &st) }); err != nil {
			return Stat{}, err
		}
		return statFrom(&st), nil
	})
}

// Stat queries path, following symlinks.
func (r *Ring) Stat(ctx context.Context, path string) *Future[Stat] {
	return submit(ctx, r, OpStat, path, func() (Stat, error) {
		var st unix.Stat_t
		if err := ignoringEINTR(func() error { return unix.Stat(path, &st) }); err != nil {
			return Stat{}, err
		}
		return statFrom(&st), nil
	})
}

// Lstat queries path without following a trailing symlink.
func (r *Ring) Lstat(ctx context.Context, path string) *Future[Stat] {
	return submit(ctx, r, OpLstat, path, func() (Stat, error) {
		var st unix.Stat_t
		if err := ignoringEINTR(func() error { return unix.Lstat(path, &st) }); err != nil {
			return Stat{}, err
		}
		return statFrom(&st), nil
	})
}

func (r *Ring) Mkdir(ctx context.Context, path string, perm uint32) *Future[struct{}] {
	return submit(ctx, r, OpMkdir, path, func() (struct{}, error) {
		return struct{}{}, ignoringEINTR(func() error { return unix.Mkdir(path, perm) })
	})
}

func (r *Ring) Unlink(ctx context.Context, path string) *Future[struct{}] {
	return submit(ctx, r, OpUnlink, path, func() (struct{}, error) {
		return struct{}{}, ignoringEINTR(func() error { return unix.Unlink(path) })
	})
}

// ReadAt submits pread(2). p belongs to the request until the future completes.
func (r *Ring) ReadAt(ctx context.Context, fd int, p []byte, off int64) *Future[int] {
	if err := r.throttle(ctx, len(p)); err != nil {
		return failed[int](r, OpRead, err)
	}

	return submit(ctx, r, OpRead, "", func() (int, error) {
		var n int
		err := ignoringEINTR(func() (err error) {
			n, err = unix.Pread(fd, p, off)
			return err
		})
		return n, err
	})
}

// WriteAt submits pwrite(2). p belongs to the request until the future completes.
func (r *Ring) WriteAt(ctx context.Context, fd int, p []byte, off int64) *Future[int] {
	if err := r.throttle(ctx, len(p)); err != nil {
		return failed[int](r, OpWrite, err)
	}

	return submit(ctx, r, OpWrite, "", func() (int, error) {
		var n int
		err := ignoringEINTR(func() (err error) {
			n, err = unix.Pwrite(fd, p, off)
			return err
		})
		return n, err
	})
}

func (r *Ring) Fsync(ctx context.Context, fd int) *Future[struct{}] {
	return submit(ctx, r, OpFsync, "", func() (struct{}, error) {
		return struct{}{}, ignoringEINTR(func() error { return unix.Fsync(fd) })
	})
}
