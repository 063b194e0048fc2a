package mount

import (
	"context"
	"io/fs"
	"testing"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/backend/memory"
	"github.com/mwantia/asyncfs/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T) (*Table, *memory.FileSystem, *memory.FileSystem) {
	t.Helper()

	root, archive := memory.New(), memory.New()
	table := New(nil)
	require.NoError(t, table.Mount(data.Path{}, root))
	require.NoError(t, table.Mount(data.MustParsePath("archive"), archive))
	t.Cleanup(func() { _ = table.Close(context.Background()) })

	return table, root, archive
}

func TestTable_Routing(t *testing.T) {
	ctx := t.Context()
	table, root, archive := newTable(t)

	require.NoError(t, backend.WriteAll(ctx, table, data.MustParsePath("notes.txt"), []byte("root")))
	require.NoError(t, backend.WriteAll(ctx, table, data.MustParsePath("archive/2024/report"), []byte("archived")))

	got, err := backend.ReadAll(ctx, root, data.MustParsePath("notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "root", string(got))

	// rebased below the mount point
	got, err = backend.ReadAll(ctx, archive, data.MustParsePath("2024/report"))
	require.NoError(t, err)
	assert.Equal(t, "archived", string(got))

	_, err = backend.ReadAll(ctx, root, data.MustParsePath("archive/2024/report"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.Equal(t, data.FileSystemMount, table.FileSystem())
}

func TestTable_List(t *testing.T) {
	ctx := t.Context()
	table, _, _ := newTable(t)

	require.NoError(t, table.CreateFile(ctx, data.MustParsePath("a")))
	require.NoError(t, table.CreateFile(ctx, data.MustParsePath("archive/b")))

	listing, err := table.List(ctx, data.Path{})
	require.NoError(t, err)
	metas, err := backend.Collect(listing)
	require.NoError(t, err)

	var paths []string
	for _, meta := range metas {
		paths = append(paths, meta.Path.String())
	}
	assert.ElementsMatch(t, []string{"a", "archive"}, paths)

	listing, err = table.List(ctx, data.MustParsePath("archive"))
	require.NoError(t, err)
	metas, err = backend.Collect(listing)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, data.MustParsePath("archive/b"), metas[0].Path)
}

func TestTable_CopyAcrossMounts(t *testing.T) {
	ctx := t.Context()
	table, _, archive := newTable(t)

	require.NoError(t, backend.WriteAll(ctx, table, data.MustParsePath("src"), []byte("payload")))
	require.NoError(t, table.Copy(ctx, data.MustParsePath("src"), data.MustParsePath("archive/dst")))

	got, err := backend.ReadAll(ctx, archive, data.MustParsePath("dst"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	err = table.Link(ctx, data.MustParsePath("src"), data.MustParsePath("archive/link"))
	assert.ErrorIs(t, err, ErrCrossMount)
	assert.ErrorIs(t, err, data.ErrIO)

	require.NoError(t, table.Link(ctx, data.MustParsePath("src"), data.MustParsePath("same")))
}

func TestTable_MountLifecycle(t *testing.T) {
	ctx := t.Context()
	table := New(nil)

	_, err := table.List(ctx, data.Path{})
	assert.ErrorIs(t, err, ErrNotMounted)

	require.NoError(t, table.Mount(data.MustParsePath("a"), memory.New()))
	require.NoError(t, table.Mount(data.MustParsePath("a/b"), memory.New(), WithReadOnly(true)))
	assert.ErrorIs(t, table.Mount(data.MustParsePath("a"), memory.New()), ErrAlreadyMounted)

	infos := table.Mounts()
	require.Len(t, infos, 2)
	assert.Equal(t, data.MustParsePath("a"), infos[0].Path)
	assert.Equal(t, data.FileSystemMemory, infos[0].Backend)
	assert.True(t, infos[1].ReadOnly)

	assert.ErrorIs(t, table.Unmount(ctx, data.MustParsePath("a")), ErrMountBusy)
	assert.ErrorIs(t, table.Unmount(ctx, data.MustParsePath("c")), ErrNotMounted)
	require.NoError(t, table.Unmount(ctx, data.MustParsePath("a/b")))
	require.NoError(t, table.Unmount(ctx, data.MustParsePath("a")))

	require.NoError(t, table.Close(ctx))
	assert.ErrorIs(t, table.Close(ctx), ErrClosed)
	assert.ErrorIs(t, table.Mount(data.Path{}, memory.New()), ErrClosed)
}

func TestReadOnly(t *testing.T) {
	ctx := t.Context()

	inner := memory.New()
	p := data.MustParsePath("file")
	require.NoError(t, backend.WriteAll(ctx, inner, p, []byte("fixed")))

	table := New(nil)
	require.NoError(t, table.Mount(data.Path{}, inner, WithReadOnly(true)))
	defer table.Close(ctx)

	got, err := backend.ReadAll(ctx, table, p)
	require.NoError(t, err)
	assert.Equal(t, "fixed", string(got))

	_, err = table.OpenOptions(ctx, p, data.OpenOptions{Read: true, Write: true})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, table.CreateFile(ctx, p), ErrReadOnly)
	assert.ErrorIs(t, table.CreateDirAll(ctx, p), ErrReadOnly)
	assert.ErrorIs(t, table.Remove(ctx, p), ErrReadOnly)
	assert.ErrorIs(t, table.Copy(ctx, p, data.MustParsePath("copy")), ErrReadOnly)
	assert.ErrorIs(t, table.Link(ctx, p, data.MustParsePath("link")), ErrReadOnly)

	listing, err := table.List(ctx, data.Path{})
	require.NoError(t, err)
	metas, err := backend.Collect(listing)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}
