package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestRootCmdSetup(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "asyncfs", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"ls", "cat", "put", "touch", "mkdir", "rm", "cp", "ln", "shell"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"backend", "log-level", "log-file", "workers", "mount", "mount-ro"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestLocalBackendAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	backend := "local://" + dir

	_, _, err := execute(t, "", "--backend", backend, "put", "notes/todo.txt", "buy", "milk")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "notes", "todo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "buy milk\n", string(content))

	out, _, err := execute(t, "", "-b", backend, "cat", "notes/todo.txt")
	require.NoError(t, err)
	assert.Equal(t, "buy milk\n", out)

	out, _, err = execute(t, "", "-b", backend, "--workers", "1", "ls", "-l", "notes")
	require.NoError(t, err)
	assert.Equal(t, "         9  todo.txt\n", out)

	_, _, err = execute(t, "", "-b", backend, "cat", "missing")
	assert.Error(t, err)
}

func TestShell(t *testing.T) {
	script := strings.Join([]string{
		"mkdir docs",
		"put docs/a first",
		"cp docs/a docs/b",
		"",
		"ls docs",
		"cat docs/nope",
		"exit",
		"ls docs",
	}, "\n")

	out, stderr, err := execute(t, script, "--backend", ":memory:", "shell")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
	assert.Contains(t, stderr, "cat:")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "", "--backend", ":memory:", "--log-level", "loud", "ls")
	assert.Error(t, err)
}

func TestMounts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixed"), []byte("static\n"), 0o644))

	script := strings.Join([]string{
		"put scratch here",
		"cp srv/fixed copied",
		"put srv/new nope",
		"ls",
		"cat copied",
	}, "\n")

	out, stderr, err := execute(t, script, "-b", ":memory:", "--mount-ro", "/srv=local://"+dir, "shell")
	require.NoError(t, err)
	assert.Equal(t, "copied\nscratch\nsrv\nstatic\n", out)
	assert.Contains(t, stderr, "read-only")

	_, _, err = execute(t, "", "-b", ":memory:", "--mount", "missing-separator", "ls")
	assert.Error(t, err)
}
