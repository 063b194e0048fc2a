package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/cmd/builtin"
	"github.com/spf13/cobra"
)

// newShellCommand reads commands line by line and runs them against one
// backend, which keeps in-memory backends alive between commands.
func newShellCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands read from stdin against a single backend",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			ctx := cc.Context()

			fs, err := opts.open(cc)
			if err != nil {
				return err
			}
			defer fs.Close(ctx)

			manager := cmd.NewManager(fs)
			if err := manager.Register(builtin.Commands()...); err != nil {
				return err
			}

			out := cc.OutOrStdout()
			scanner := bufio.NewScanner(cc.InOrStdin())
			for scanner.Scan() {
				if err := ctx.Err(); err != nil {
					return err
				}

				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}

				switch fields[0] {
				case "exit", "quit":
					return nil
				case "help":
					for _, c := range manager.List() {
						fmt.Fprintf(out, "%-8s %s\n", c.Name(), c.Description())
					}
					continue
				}

				if _, err := manager.Execute(ctx, out, fields...); err != nil {
					fmt.Fprintln(cc.ErrOrStderr(), err)
				}
			}
			return scanner.Err()
		},
	}
}
