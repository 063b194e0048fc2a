package memory

import (
	"io"
	"io/fs"
	"math"
	"testing"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_ListDirectChildrenOnly(t *testing.T) {
	ctx := t.Context()
	mb := New()

	require.NoError(t, backend.WriteAll(ctx, mb, data.MustParsePath("dir/a"), []byte("1")))
	require.NoError(t, backend.WriteAll(ctx, mb, data.MustParsePath("dir/a-b"), []byte("22")))
	require.NoError(t, backend.WriteAll(ctx, mb, data.MustParsePath("dir/sub/nested"), []byte("333")))
	require.NoError(t, backend.WriteAll(ctx, mb, data.MustParsePath("dir2/x"), nil))

	listing, err := mb.List(ctx, data.MustParsePath("dir"))
	require.NoError(t, err)
	metas, err := backend.Collect(listing)
	require.NoError(t, err)

	assert.ElementsMatch(t, []data.FileMeta{
		{Path: data.MustParsePath("dir/a"), Size: 1},
		{Path: data.MustParsePath("dir/a-b"), Size: 2},
		{Path: data.MustParsePath("dir/sub"), Size: 0},
	}, metas)

	listing, err = mb.List(ctx, data.Path{})
	require.NoError(t, err)
	metas, err = backend.Collect(listing)
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestMemory_ListAllowsMutation(t *testing.T) {
	ctx := t.Context()
	mb := New()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, mb.CreateFile(ctx, data.MustParsePath("d/"+name)))
	}

	listing, err := mb.List(ctx, data.MustParsePath("d"))
	require.NoError(t, err)

	var seen []string
	for meta, err := range listing {
		require.NoError(t, err)
		seen = append(seen, meta.Path.Base())
		// no lock is held while the consumer runs
		require.NoError(t, mb.Remove(ctx, meta.Path))
	}

	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestMemory_LinkSurvivesRemove(t *testing.T) {
	ctx := t.Context()
	mb := New()
	a, b := data.MustParsePath("a"), data.MustParsePath("b")

	require.NoError(t, backend.WriteAll(ctx, mb, a, []byte("shared")))
	require.NoError(t, mb.Link(ctx, a, b))
	require.NoError(t, mb.Remove(ctx, a))

	content, err := backend.ReadAll(ctx, mb, b)
	require.NoError(t, err)
	assert.Equal(t, "shared", string(content))
}

func TestMemory_AccessModeIsEnforced(t *testing.T) {
	ctx := t.Context()
	mb := New()
	p := data.MustParsePath("f")
	require.NoError(t, mb.CreateFile(ctx, p))

	ro, err := mb.OpenOptions(ctx, p, data.OpenOptions{Read: true})
	require.NoError(t, err)
	_, err = ro.Write(ctx, []byte("x"))
	assert.ErrorIs(t, err, fs.ErrPermission)

	wo, err := mb.OpenOptions(ctx, p, data.OpenOptions{Write: true})
	require.NoError(t, err)
	_, err = wo.ReadToEndAt(ctx, 0)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestMemory_ReadExactAtLargeOffset(t *testing.T) {
	ctx := t.Context()
	mb := New()
	p := data.MustParsePath("f")
	require.NoError(t, backend.WriteAll(ctx, mb, p, []byte("abc")))

	f, err := mb.OpenOptions(ctx, p, data.OpenOptions{Read: true})
	require.NoError(t, err)
	defer f.Close(ctx)

	for _, pos := range []uint64{math.MaxUint64, math.MaxUint64 - 1, 3, 4} {
		err := f.ReadExactAt(ctx, make([]byte, 2), pos)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF, pos)
		assert.ErrorIs(t, err, data.ErrIO, pos)
	}

	require.NoError(t, f.ReadExactAt(ctx, nil, math.MaxUint64))
}

func TestMemory_Close(t *testing.T) {
	ctx := t.Context()
	mb := New()
	p := data.MustParsePath("f")
	require.NoError(t, backend.WriteAll(ctx, mb, p, []byte("x")))

	f, err := mb.OpenOptions(ctx, p, data.OpenOptions{Read: true})
	require.NoError(t, err)

	require.NoError(t, mb.Close(ctx))
	assert.ErrorIs(t, mb.Close(ctx), data.ErrClosed)

	_, err = mb.OpenOptions(ctx, p, data.OpenOptions{Read: true})
	assert.ErrorIs(t, err, data.ErrClosed)
	assert.ErrorIs(t, mb.CreateDirAll(ctx, p), data.ErrClosed)

	// open handles keep their node
	content, err := f.ReadToEndAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}
