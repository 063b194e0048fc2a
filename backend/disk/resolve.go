package disk

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mwantia/asyncfs/data"
)

// MaxSegmentLen is the longest name a single local path component may have.
const MaxSegmentLen = 255

// Resolver maps virtual paths below a fixed root to local paths and back.
type Resolver struct {
	root string
}

// NewResolver expects an absolute root.
func NewResolver(root string) Resolver {
	return Resolver{root: filepath.Clean(root)}
}

func (r Resolver) Root() string {
	return r.root
}

// ToLocal joins the segments of p below the root. The mapping is injective
// because every segment is validated and none can be "." or "..".
func (r Resolver) ToLocal(p data.Path) (string, error) {
	segments := p.Segments()
	for _, segment := range segments {
		if err := localSegment(segment); err != nil {
			return "", data.PathError("resolve", p.String(), err)
		}
	}

	if len(segments) == 0 {
		return r.root, nil
	}
	return filepath.Join(r.root, filepath.Join(segments...)), nil
}

// FromLocal maps a local path below the root back to its virtual path.
func (r Resolver) FromLocal(local string) (data.Path, error) {
	rel, err := filepath.Rel(r.root, filepath.Clean(local))
	if err != nil {
		return data.Path{}, data.PathError("resolve", local, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return data.Path{}, data.PathError("resolve", local, data.ErrOutsideRoot)
	}
	if rel == "." {
		return data.Path{}, nil
	}

	segments := strings.Split(rel, string(filepath.Separator))
	for _, segment := range segments {
		if err := localSegment(segment); err != nil {
			return data.Path{}, data.PathError("resolve", local, err)
		}
	}
	return data.PathFromSegments(segments...)
}

func localSegment(segment string) error {
	switch {
	case len(segment) > MaxSegmentLen:
		return data.ErrSegmentTooLong
	case strings.ContainsRune(segment, 0):
		return data.ErrInvalidPath
	case strings.ContainsRune(segment, filepath.Separator):
		return data.ErrInvalidPath
	case !utf8.ValidString(segment):
		return data.ErrInvalidPath
	}
	return nil
}
