package data

import (
	"errors"
	"fmt"
)

// ErrorKind separates path conversion failures from everything the
// underlying substrate reports.
type ErrorKind int

const (
	KindPath ErrorKind = iota + 1
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinels for classifying errors with errors.Is.
var (
	ErrPath = errors.New("asyncfs: path error")
	ErrIO   = errors.New("asyncfs: io error")
)

var (
	// Path validation errors
	ErrInvalidPath     = errors.New("asyncfs: invalid path")
	ErrEmptySegment    = errors.New("asyncfs: empty path segment")
	ErrRelativeSegment = errors.New("asyncfs: relative path segment")
	ErrSegmentTooLong  = errors.New("asyncfs: path segment too long")
	ErrOutsideRoot     = errors.New("asyncfs: path outside of root")

	// File operation errors
	ErrIsDirectory     = errors.New("asyncfs: is a directory")
	ErrNotDirectory    = errors.New("asyncfs: not a directory")
	ErrClosed          = errors.New("asyncfs: file already closed")
	ErrListingConsumed = errors.New("asyncfs: listing already consumed")
)

// Error is returned by every backend operation.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asyncfs: %s %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("asyncfs: %s %s '%s': %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrPath:
		return e.Kind == KindPath
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

// PathError reports a failed conversion between virtual and local paths.
func PathError(op, path string, err error) error {
	return &Error{Kind: KindPath, Op: op, Path: path, Err: err}
}

// IOError wraps a failure of the underlying substrate unmodified.
// Errors that already are *Error are returned as they are.
func IOError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}
