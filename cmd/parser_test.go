package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlagSet() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"long":   {Name: "long", Short: "l", Type: "bool"},
			"all":    {Name: "all", Short: "a", Type: "bool"},
			"offset": {Name: "offset", Short: "o", Type: "int", Default: int64(0)},
			"name":   {Name: "name", Short: "n", Type: "string"},
		},
	}
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		args  []string
		flags map[string]any
	}{
		{
			name:  "positional only",
			raw:   []string{"a", "b"},
			args:  []string{"a", "b"},
			flags: map[string]any{"offset": int64(0)},
		},
		{
			name:  "grouped shorthands",
			raw:   []string{"-la", "dir"},
			args:  []string{"dir"},
			flags: map[string]any{"long": true, "all": true, "offset": int64(0)},
		},
		{
			name:  "attached short value",
			raw:   []string{"-o12", "file"},
			args:  []string{"file"},
			flags: map[string]any{"offset": int64(12)},
		},
		{
			name:  "long with equals and separate value",
			raw:   []string{"--offset=3", "--name", "x", "file"},
			args:  []string{"file"},
			flags: map[string]any{"offset": int64(3), "name": "x"},
		},
		{
			name:  "terminator",
			raw:   []string{"--long", "--", "-not-a-flag"},
			args:  []string{"-not-a-flag"},
			flags: map[string]any{"long": true, "offset": int64(0)},
		},
		{
			name:  "bool with explicit value",
			raw:   []string{"--long=false"},
			flags: map[string]any{"long": false, "offset": int64(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := NewParser(testFlagSet()).Parse(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, tt.args, args.Args)
			assert.Equal(t, tt.flags, args.Flags)
			assert.Equal(t, tt.raw, args.Raw)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		raw []string
		err error
	}{
		{raw: []string{"--unknown"}, err: ErrUnknownFlag},
		{raw: []string{"-x"}, err: ErrUnknownFlag},
		{raw: []string{"--name"}, err: ErrMissingValue},
		{raw: []string{"-n", "-l"}, err: ErrMissingValue},
		{raw: []string{"--offset=abc"}, err: ErrInvalidValue},
	}

	for _, tt := range tests {
		_, err := NewParser(testFlagSet()).Parse(tt.raw)
		assert.ErrorIs(t, err, tt.err, "%v", tt.raw)
	}
}

func TestParser_RequiredFlag(t *testing.T) {
	set := &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"target": {Name: "target", Type: "string", Required: true},
		},
	}

	_, err := NewParser(set).Parse(nil)
	assert.ErrorIs(t, err, ErrRequiredFlag)

	args, err := NewParser(set).Parse([]string{"--target", "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", args.String("target"))
}

func TestParser_NilFlagSet(t *testing.T) {
	args, err := NewParser(nil).Parse([]string{"a", "-"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "-"}, args.Args)

	_, err = NewParser(nil).Parse([]string{"-l"})
	assert.ErrorIs(t, err, ErrUnknownFlag)
}

func TestCommandArgs_Path(t *testing.T) {
	args := &CommandArgs{Args: []string{"/dir/file", "../bad"}}

	p, err := args.Path(0)
	require.NoError(t, err)
	assert.Equal(t, "dir/file", p.String())

	_, err = args.Path(1)
	assert.Error(t, err)

	_, err = args.Path(2)
	assert.ErrorIs(t, err, ErrMissingArgument)

	root, err := args.PathOrRoot(5)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
}
