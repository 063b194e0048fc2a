package backend

import (
	"context"
	"iter"

	"github.com/mwantia/asyncfs/data"
)

// Listing is a lazy, single-pass sequence of directory entries. The first
// error is yielded once and ends the sequence.
type Listing = iter.Seq2[data.FileMeta, error]

// FileSystem is the uniform contract every substrate implements.
type FileSystem interface {
	// FileSystem returns the tag identifying the substrate.
	FileSystem() data.FileSystemTag

	// OpenOptions opens the file at path. With Create set, a missing file and
	// its missing parent directories are created first. The returned file's
	// cursor starts at the file's size.
	OpenOptions(ctx context.Context, path data.Path, options data.OpenOptions) (File, error)

	// CreateFile creates an empty file at path, including missing parents.
	CreateFile(ctx context.Context, path data.Path) error

	// CreateDirAll creates path and every missing ancestor. Existing
	// directories are not an error.
	CreateDirAll(ctx context.Context, path data.Path) error

	// List returns the entries directly below path. Errors opening the
	// directory are returned immediately; errors per entry end the Listing.
	List(ctx context.Context, path data.Path) (Listing, error)

	// Remove deletes the file at path.
	Remove(ctx context.Context, path data.Path) error

	// Copy replaces to with an independent copy of from's bytes.
	Copy(ctx context.Context, from, to data.Path) error

	// Link creates to as a hard link to from.
	Link(ctx context.Context, from, to data.Path) error

	// Close is part of the lifecycle behaviour and releases backend resources.
	Close(ctx context.Context) error
}

// File is a handle returned by FileSystem.OpenOptions. It is owned by a
// single caller and not safe for concurrent use.
type File interface {
	// Write writes all of p at the cursor and advances it.
	Write(ctx context.Context, p []byte) (int, error)

	// ReadExactAt fills p starting at pos; io.ErrUnexpectedEOF if the file is shorter.
	ReadExactAt(ctx context.Context, p []byte, pos uint64) error

	// ReadToEndAt returns everything from pos to the end of the file.
	ReadToEndAt(ctx context.Context, pos uint64) ([]byte, error)

	// Size returns the current size of the file.
	Size(ctx context.Context) (uint64, error)

	// Pos returns the cursor.
	Pos() uint64

	// Flush persists written data.
	Flush(ctx context.Context) error

	// Close releases the handle. Substrates that buffer writes flush first.
	Close(ctx context.Context) error
}
