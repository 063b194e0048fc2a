package cmd

import (
	"context"
	"io"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
)

// API is a simplified version of backend.FileSystem.
// It strips away the lifecycle functions commands must not call.
type API interface {
	// FileSystem returns the tag of the backend commands operate on.
	FileSystem() data.FileSystemTag

	// OpenOptions opens a file; the returned File must be closed by the caller.
	OpenOptions(ctx context.Context, path data.Path, options data.OpenOptions) (backend.File, error)

	// CreateFile creates an empty file, including missing parents.
	CreateFile(ctx context.Context, path data.Path) error

	// CreateDirAll creates a directory and all missing parents.
	CreateDirAll(ctx context.Context, path data.Path) error

	// List returns a single-pass listing of the entries below path.
	List(ctx context.Context, path data.Path) (backend.Listing, error)

	// Remove deletes a file.
	Remove(ctx context.Context, path data.Path) error

	// Copy replaces to with a copy of from.
	Copy(ctx context.Context, from, to data.Path) error

	// Link creates to as a hard link to from.
	Link(ctx context.Context, from, to data.Path) error
}

// Command represents an executable command operating on a backend.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls -l [path]")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
