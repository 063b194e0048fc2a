// Package asyncfs opens filesystem backends by address. Every backend
// implements backend.FileSystem; the local one submits its operations to a
// completion ring and suspends until they complete.
package asyncfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/backend/disk"
	"github.com/mwantia/asyncfs/backend/memory"
	"github.com/mwantia/asyncfs/backend/s3"
	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
	"github.com/mwantia/asyncfs/mount"
	"github.com/mwantia/asyncfs/ring"
)

var (
	_ backend.FileSystem = (*disk.FileSystem)(nil)
	_ backend.FileSystem = (*memory.FileSystem)(nil)
	_ backend.FileSystem = (*s3.FileSystem)(nil)
	_ backend.FileSystem = (*mount.Table)(nil)

	_ backend.File = (*disk.File)(nil)
	_ backend.File = (*memory.File)(nil)
	_ backend.File = (*s3.File)(nil)
)

// Open parses address and returns the configured backend. Local backends get
// a ring of their own that is shut down by Close.
func Open(ctx context.Context, address string, opts ...Option) (backend.FileSystem, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	logger := options.logger()
	switch addr.Backend {
	case data.FileSystemLocal:
		return openLocal(addr, options, logger)

	case data.FileSystemMemory:
		return memory.New(memory.WithLogger(logger.Named("memory"))), nil

	case data.FileSystemS3:
		sb, err := s3.New(addr.S3, s3.WithLogger(logger.Named("s3")))
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 backend: %w", err)
		}
		if err := sb.Open(ctx); err != nil {
			return nil, err
		}
		return sb, nil
	}

	return nil, fmt.Errorf("failed to open address '%s': %w", address, ErrUnknownBackendAddress)
}

func openLocal(addr *Address, options *Options, logger *log.Logger) (backend.FileSystem, error) {
	ringOpts := []ring.Option{
		ring.WithWorkers(firstNonZero(addr.Workers, options.Workers)),
		ring.WithQueueDepth(firstNonZero(addr.QueueDepth, options.QueueDepth)),
		ring.WithIOLimit(firstNonZero(addr.IOLimit, options.IOLimit)),
		ring.WithLogger(logger.Named("ring")),
	}

	r := ring.New(ringOpts...)
	fs, err := disk.New(r, addr.Root, disk.WithLogger(logger.Named("disk")))
	if err != nil {
		_ = r.Shutdown()
		return nil, err
	}

	return &localFileSystem{diskFileSystem: fs, ring: r}, nil
}

// the alias keeps the embedded field from shadowing the FileSystem method
type diskFileSystem = disk.FileSystem

// localFileSystem owns the ring its disk backend was created with.
type localFileSystem struct {
	*diskFileSystem
	ring *ring.Ring
}

func (l *localFileSystem) Close(ctx context.Context) error {
	return errors.Join(l.diskFileSystem.Close(ctx), l.ring.Shutdown())
}

func firstNonZero[T int | int64](values ...T) T {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
