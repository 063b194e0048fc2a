// Package builtin provides the commands every asyncfs shell registers.
package builtin

import (
	"fmt"

	"github.com/mwantia/asyncfs/cmd"
)

// Commands returns a fresh instance of every builtin command.
func Commands() []cmd.Command {
	return []cmd.Command{
		&LsCommand{},
		&CatCommand{},
		&PutCommand{},
		&TouchCommand{},
		&MkdirCommand{},
		&RmCommand{},
		&CpCommand{},
		&LnCommand{},
	}
}

// failed formats err the way every builtin reports it and returns exit code 1.
func failed(name string, err error) (int, error) {
	return 1, fmt.Errorf("%s: %w", name, err)
}
