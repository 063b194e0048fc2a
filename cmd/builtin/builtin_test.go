package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/backend/memory"
	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*cmd.Manager, *memory.FileSystem) {
	t.Helper()

	fs := memory.New()
	t.Cleanup(func() { _ = fs.Close(context.Background()) })

	m := cmd.NewManager(fs)
	require.NoError(t, m.Register(Commands()...))
	return m, fs
}

func run(t *testing.T, m *cmd.Manager, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	code, err := m.Execute(t.Context(), &out, args...)
	if err == nil {
		assert.Zero(t, code)
	} else {
		assert.NotZero(t, code)
	}
	return out.String(), err
}

func TestBuiltins_Registered(t *testing.T) {
	m, _ := newTestManager(t)

	var names []string
	for _, c := range m.List() {
		names = append(names, c.Name())
		assert.NotEmpty(t, c.Description())
		assert.True(t, strings.HasPrefix(c.Usage(), c.Name()))

		// every flag shows up in the usage line
		if flags := c.GetFlags(); flags != nil {
			for _, flag := range flags.Flags {
				mentioned := strings.Contains(c.Usage(), "--"+flag.Name) ||
					(flag.Short != "" && strings.Contains(c.Usage(), "-"+flag.Short))
				assert.True(t, mentioned, "%s: %s", c.Name(), flag.Name)
			}
		}
	}
	assert.Equal(t, []string{"cat", "cp", "ln", "ls", "mkdir", "put", "rm", "touch"}, names)

	assert.Error(t, m.Register(&LsCommand{}))
}

func TestBuiltins_PutCatLs(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := run(t, m, "put", "docs/readme.md", "hello", "world")
	require.NoError(t, err)
	_, err = run(t, m, "put", "-a", "docs/readme.md", "again")
	require.NoError(t, err)

	out, err := run(t, m, "cat", "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "hello world\nagain\n", out)

	out, err = run(t, m, "cat", "-o", "6", "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "world\nagain\n", out)

	_, err = run(t, m, "touch", "docs/empty")
	require.NoError(t, err)
	_, err = run(t, m, "mkdir", "docs/sub")
	require.NoError(t, err)

	out, err = run(t, m, "ls", "docs")
	require.NoError(t, err)
	assert.Equal(t, "empty\nreadme.md\nsub\n", out)

	out, err = run(t, m, "ls", "-l", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "        18  readme.md\n")

	out, err = run(t, m, "ls", "--json", "docs")
	require.NoError(t, err)
	var first data.FileMeta
	require.NoError(t, json.Unmarshal([]byte(strings.SplitN(out, "\n", 2)[0]), &first))
	assert.Equal(t, data.FileMeta{Path: data.MustParsePath("docs/empty"), Size: 0}, first)
}

func TestBuiltins_CpLnRm(t *testing.T) {
	ctx := t.Context()
	m, fs := newTestManager(t)
	require.NoError(t, backend.WriteAll(ctx, fs, data.MustParsePath("a"), []byte("A")))

	_, err := run(t, m, "cp", "a", "b")
	require.NoError(t, err)
	_, err = run(t, m, "ln", "a", "c")
	require.NoError(t, err)
	_, err = run(t, m, "put", "-a", "-n", "c", "+")
	require.NoError(t, err)

	got, err := backend.ReadAll(ctx, fs, data.MustParsePath("a"))
	require.NoError(t, err)
	assert.Equal(t, "A+", string(got))

	got, err = backend.ReadAll(ctx, fs, data.MustParsePath("b"))
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))

	_, err = run(t, m, "rm", "a", "b")
	require.NoError(t, err)

	out, err := run(t, m, "ls")
	require.NoError(t, err)
	assert.Equal(t, "c\n", out)
}

func TestBuiltins_Errors(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := run(t, m, "cat", "missing")
	assert.ErrorIs(t, err, data.ErrIO)

	_, err = run(t, m, "rm")
	assert.ErrorIs(t, err, cmd.ErrMissingArgument)

	_, err = run(t, m, "cp", "only-one")
	assert.ErrorIs(t, err, cmd.ErrMissingArgument)

	_, err = run(t, m, "ls", "--bogus")
	assert.ErrorIs(t, err, cmd.ErrUnknownFlag)

	_, err = run(t, m, "frobnicate")
	assert.ErrorIs(t, err, cmd.ErrCommandNotFound)
}
