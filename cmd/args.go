package cmd

import "github.com/mwantia/asyncfs/data"

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// Bool returns the named flag, false if unset or not a bool.
func (a *CommandArgs) Bool(name string) bool {
	v, _ := a.Flags[name].(bool)
	return v
}

func (a *CommandArgs) String(name string) string {
	v, _ := a.Flags[name].(string)
	return v
}

func (a *CommandArgs) Int(name string) int64 {
	v, _ := a.Flags[name].(int64)
	return v
}

// Path parses the positional argument at index i.
func (a *CommandArgs) Path(i int) (data.Path, error) {
	if i >= len(a.Args) {
		return data.Path{}, ErrMissingArgument
	}
	return data.ParsePath(a.Args[i])
}

// PathOrRoot is like Path but falls back to the root when the argument is missing.
func (a *CommandArgs) PathOrRoot(i int) (data.Path, error) {
	if i >= len(a.Args) {
		return data.Path{}, nil
	}
	return data.ParsePath(a.Args[i])
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "long" or "l"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "l")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}
