// Package memory implements backend.FileSystem in process memory. Paths are
// indexed in a btree so a directory's children are adjacent to each other.
package memory

import (
	"context"
	"io/fs"
	"sync"

	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
	"github.com/tidwall/btree"
)

// node is shared by every key that links to it.
type node struct {
	dir  bool
	data []byte
}

type FileSystem struct {
	mu     sync.RWMutex
	closed bool

	nodes *btree.Map[string, *node]
	log   *log.Logger
}

type Option func(*FileSystem)

func WithLogger(logger *log.Logger) Option {
	return func(mb *FileSystem) {
		mb.log = logger
	}
}

func New(opts ...Option) *FileSystem {
	mb := &FileSystem{
		nodes: btree.NewMap[string, *node](0),
		log:   log.Discard(),
	}
	for _, opt := range opts {
		opt(mb)
	}

	mb.nodes.Set("", &node{dir: true})
	return mb
}

// Returns the tag defined for this backend
func (*FileSystem) FileSystem() data.FileSystemTag {
	return data.FileSystemMemory
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
// All content is dropped; open files keep the nodes they reference.
func (mb *FileSystem) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if mb.closed {
		return data.IOError("close", "", data.ErrClosed)
	}

	mb.closed = true
	mb.nodes.Clear()
	return nil
}

// lookup expects mu to be held.
func (mb *FileSystem) lookup(op string, p data.Path) (*node, error) {
	if mb.closed {
		return nil, data.IOError(op, p.String(), data.ErrClosed)
	}

	n, ok := mb.nodes.Get(p.String())
	if !ok {
		return nil, data.IOError(op, p.String(), fs.ErrNotExist)
	}
	return n, nil
}

// parentDir checks that p's parent exists and is a directory. mu must be held.
func (mb *FileSystem) parentDir(op string, p data.Path) error {
	parent, ok := p.Parent()
	if !ok {
		return nil
	}

	n, err := mb.lookup(op, parent)
	if err != nil {
		return err
	}
	if !n.dir {
		return data.IOError(op, parent.String(), data.ErrNotDirectory)
	}
	return nil
}
