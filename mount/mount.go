// Package mount composes several backends into one tree. Every path is routed
// to the backend mounted at its longest matching prefix and rebased below it.
package mount

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
)

var (
	ErrAlreadyMounted = errors.New("mount: path already mounted")
	ErrNotMounted     = errors.New("mount: path not mounted")
	ErrMountBusy      = errors.New("mount: mount point has child mounts")
	ErrCrossMount     = errors.New("mount: link across mount points")
	ErrReadOnly       = errors.New("mount: read-only mount")
	ErrClosed         = errors.New("mount: table closed")
)

// Info describes one mounted backend.
type Info struct {
	Path      data.Path          `json:"path"`
	Backend   data.FileSystemTag `json:"backend"`
	ReadOnly  bool               `json:"read_only"`
	MountedAt time.Time          `json:"mounted_at"`
}

type Option func(*Info)

// WithReadOnly rejects every mutating operation on the mount.
func WithReadOnly(ro bool) Option {
	return func(info *Info) {
		info.ReadOnly = ro
	}
}

type entry struct {
	fsys backend.FileSystem
	info Info
}

// Table is a backend.FileSystem made of mounted backends. It owns them and
// closes them on Unmount and Close.
type Table struct {
	mu     sync.RWMutex
	closed bool
	mounts map[string]*entry
	log    *log.Logger
}

func New(logger *log.Logger) *Table {
	if logger == nil {
		logger = log.Discard()
	}
	return &Table{
		mounts: make(map[string]*entry),
		log:    logger,
	}
}

// Mount attaches fsys at path. Read-only mounts are wrapped by ReadOnly.
func (t *Table) Mount(path data.Path, fsys backend.FileSystem, opts ...Option) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if _, exists := t.mounts[path.String()]; exists {
		return fmt.Errorf("%w: /%s", ErrAlreadyMounted, path)
	}

	info := Info{
		Path:      path,
		Backend:   fsys.FileSystem(),
		MountedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&info)
	}
	if info.ReadOnly {
		fsys = ReadOnly(fsys)
	}

	t.mounts[path.String()] = &entry{fsys: fsys, info: info}
	t.log.Debug("mounted %s at /%s (read-only: %t)", info.Backend, path, info.ReadOnly)
	return nil
}

// Unmount detaches and closes the backend at path. Mount points with child
// mounts stay attached.
func (t *Table) Unmount(ctx context.Context, path data.Path) error {
	t.mu.Lock()
	e, exists := t.mounts[path.String()]
	if !exists {
		t.mu.Unlock()
		return fmt.Errorf("%w: /%s", ErrNotMounted, path)
	}
	for key, other := range t.mounts {
		if key != path.String() && other.info.Path.HasPrefix(path) {
			t.mu.Unlock()
			return fmt.Errorf("%w: /%s", ErrMountBusy, path)
		}
	}
	delete(t.mounts, path.String())
	t.mu.Unlock()

	return e.fsys.Close(ctx)
}

// Mounts returns the mounted backends ordered by path.
func (t *Table) Mounts() []Info {
	t.mu.RLock()
	defer t.mu.RUnlock()

	infos := make([]Info, 0, len(t.mounts))
	for _, e := range t.mounts {
		infos = append(infos, e.info)
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return strings.Compare(a.Path.String(), b.Path.String())
	})
	return infos
}

// resolve finds the longest mount point that is a prefix of path and returns
// its backend together with path relative to it.
func (t *Table) resolve(op string, path data.Path) (*entry, data.Path, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var best *entry
	for _, e := range t.mounts {
		if !path.HasPrefix(e.info.Path) {
			continue
		}
		if best == nil || len(e.info.Path.String()) > len(best.info.Path.String()) {
			best = e
		}
	}
	if best == nil {
		return nil, data.Path{}, data.IOError(op, path.String(), ErrNotMounted)
	}

	return best, relative(path, best.info.Path), nil
}

// childMounts returns the mount points directly below path.
func (t *Table) childMounts(path data.Path) []data.Path {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var children []data.Path
	for _, e := range t.mounts {
		parent, ok := e.info.Path.Parent()
		if ok && parent == path {
			children = append(children, e.info.Path)
		}
	}
	return children
}

func relative(path, mountPoint data.Path) data.Path {
	segments := path.Segments()[len(mountPoint.Segments()):]
	rel, _ := data.PathFromSegments(segments...)
	return rel
}

func absolute(mountPoint, rel data.Path) data.Path {
	if mountPoint.IsRoot() {
		return rel
	}
	abs, _ := data.PathFromSegments(append(mountPoint.Segments(), rel.Segments()...)...)
	return abs
}
