// Package disk implements backend.FileSystem on a local directory tree.
//
// Every operation except Copy and Link, and the directory reads of List, is
// submitted to a ring.Ring and awaited. The ring is passed in by the caller
// and is not closed by the backend.
package disk

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
	"github.com/mwantia/asyncfs/ring"
)

// DefaultPerm is applied to created files; directories get DefaultDirPerm.
const (
	DefaultPerm    = 0o644
	DefaultDirPerm = 0o755
)

var ErrNoRing = errors.New("disk: ring is required")

type FileSystem struct {
	ring     *ring.Ring
	resolver Resolver
	log      *log.Logger
}

type Option func(*FileSystem)

func WithLogger(logger *log.Logger) Option {
	return func(b *FileSystem) {
		b.log = logger
	}
}

// New returns a backend rooted at root, which must be an existing directory.
func New(r *ring.Ring, root string, opts ...Option) (*FileSystem, error) {
	if r == nil {
		return nil, ErrNoRing
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, data.PathError("new", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, data.IOError("new", abs, err)
	}
	if !info.IsDir() {
		return nil, data.IOError("new", abs, data.ErrNotDirectory)
	}

	b := &FileSystem{
		ring:     r,
		resolver: NewResolver(abs),
		log:      log.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.log.Debug("rooted at '%s'", abs)
	return b, nil
}

// Returns the tag defined for this backend
func (*FileSystem) FileSystem() data.FileSystemTag {
	return data.FileSystemLocal
}

func (b *FileSystem) Root() string {
	return b.resolver.Root()
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (b *FileSystem) Close(ctx context.Context) error {
	// The ring and the directory tree outlive the backend
	return nil
}

// awaitOpen waits for an open submission. When ctx ends first, the descriptor
// that eventually arrives is closed in the background.
func (b *FileSystem) awaitOpen(ctx context.Context, f *ring.Future[int]) (int, error) {
	fd, err := f.Await(ctx)
	if err != nil && ctx.Err() != nil {
		go func() {
			bg := context.WithoutCancel(ctx)
			if fd, err := f.Await(bg); err == nil {
				b.closeFd(bg, fd)
			}
		}()
	}
	return fd, err
}

func (b *FileSystem) closeFd(ctx context.Context, fd int) {
	bg := context.WithoutCancel(ctx)
	if _, err := b.ring.Close(bg, fd).Await(bg); err != nil {
		b.log.Warn("failed to close descriptor %d: %v", fd, err)
	}
}
