package asyncfs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/mount"
)

var ErrMalformedMountPoint = errors.New("malformed mount point defined")

// MountPoint binds a backend address to a path of a mount table.
type MountPoint struct {
	Path     data.Path
	Address  string
	ReadOnly bool
}

// ParseMountPoint parses "path=address", e.g. "/archive=local:///srv/archive".
func ParseMountPoint(s string, readOnly bool) (MountPoint, error) {
	at, address, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(address) == "" {
		return MountPoint{}, fmt.Errorf("%w: '%s'", ErrMalformedMountPoint, s)
	}

	p, err := data.ParsePath(strings.TrimSpace(at))
	if err != nil {
		return MountPoint{}, fmt.Errorf("%w: %w", ErrMalformedMountPoint, err)
	}

	return MountPoint{Path: p, Address: strings.TrimSpace(address), ReadOnly: readOnly}, nil
}

// OpenMounts opens every mount point and returns the table composing them.
// If one of them fails, the backends opened so far are closed again.
func OpenMounts(ctx context.Context, points []MountPoint, opts ...Option) (*mount.Table, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	logger := options.logger()
	opts = append(opts, WithLogger(logger))

	table := mount.New(logger.Named("mount"))
	for _, point := range points {
		fsys, err := Open(ctx, point.Address, opts...)
		if err != nil {
			return nil, errors.Join(err, table.Close(ctx))
		}

		if err := table.Mount(point.Path, fsys, mount.WithReadOnly(point.ReadOnly)); err != nil {
			return nil, errors.Join(err, fsys.Close(ctx), table.Close(ctx))
		}
	}

	return table, nil
}
