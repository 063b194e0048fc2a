package data

import (
	"strings"
	"unicode/utf8"
)

// Delimiter separates the segments of a Path.
const Delimiter = "/"

// Path is a backend-independent location: a sequence of segments joined by
// Delimiter, without leading or trailing delimiter. The zero value is the root.
type Path struct {
	raw string
}

// ParsePath validates and normalises s into a Path. Leading and trailing
// delimiters are ignored; empty, "." and ".." segments are rejected.
func ParsePath(s string) (Path, error) {
	trimmed := strings.Trim(s, Delimiter)
	if trimmed == "" {
		return Path{}, nil
	}

	segments := strings.Split(trimmed, Delimiter)
	for _, segment := range segments {
		if err := validSegment(segment); err != nil {
			return Path{}, PathError("parse", s, err)
		}
	}

	return Path{raw: trimmed}, nil
}

// MustParsePath is like ParsePath but panics on invalid input.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PathFromSegments builds a Path from already separated segments.
func PathFromSegments(segments ...string) (Path, error) {
	for _, segment := range segments {
		if err := validSegment(segment); err != nil {
			return Path{}, PathError("parse", strings.Join(segments, Delimiter), err)
		}
	}

	return Path{raw: strings.Join(segments, Delimiter)}, nil
}

func validSegment(segment string) error {
	switch {
	case segment == "":
		return ErrEmptySegment
	case segment == "." || segment == "..":
		return ErrRelativeSegment
	case strings.Contains(segment, Delimiter):
		return ErrInvalidPath
	case strings.ContainsRune(segment, 0):
		return ErrInvalidPath
	case !utf8.ValidString(segment):
		return ErrInvalidPath
	}
	return nil
}

func (p Path) String() string {
	return p.raw
}

func (p Path) IsRoot() bool {
	return p.raw == ""
}

// Segments returns the individual path components, nil for the root.
func (p Path) Segments() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(p.raw, Delimiter)
}

// Base returns the last segment, or "" for the root.
func (p Path) Base() string {
	if idx := strings.LastIndex(p.raw, Delimiter); idx >= 0 {
		return p.raw[idx+1:]
	}
	return p.raw
}

// Parent returns the enclosing path. The root has no parent.
func (p Path) Parent() (Path, bool) {
	if p.IsRoot() {
		return Path{}, false
	}
	if idx := strings.LastIndex(p.raw, Delimiter); idx >= 0 {
		return Path{raw: p.raw[:idx]}, true
	}
	return Path{}, true
}

// Child appends a single validated segment.
func (p Path) Child(segment string) (Path, error) {
	if err := validSegment(segment); err != nil {
		return Path{}, PathError("child", p.raw+Delimiter+segment, err)
	}
	if p.IsRoot() {
		return Path{raw: segment}, nil
	}
	return Path{raw: p.raw + Delimiter + segment}, nil
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.IsRoot() || p.raw == prefix.raw {
		return true
	}
	return strings.HasPrefix(p.raw, prefix.raw+Delimiter)
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.raw), nil
}

func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
