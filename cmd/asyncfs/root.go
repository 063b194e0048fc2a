package main

import (
	"fmt"
	"os"

	"github.com/mwantia/asyncfs"
	"github.com/mwantia/asyncfs/backend"
	"github.com/mwantia/asyncfs/cmd"
	"github.com/mwantia/asyncfs/cmd/builtin"
	"github.com/mwantia/asyncfs/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	backend  string
	logLevel string
	logFile  string
	workers  int
	mounts   []string
	mountsRO []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "asyncfs",
		Short: "Operate on local, in-memory and S3 filesystems through one interface",
		Long: `asyncfs runs file commands against a backend selected by address:

  local:///abs/root[?workers=N&queue=N&iolimit=BYTES]
  :memory:
  s3://access:secret@host:port/bucket[?ssl=true]

Without --backend, ASYNCFS_BACKEND or the current directory is used.
Further backends are attached below the first one with --mount.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.backend, "backend", "b", "", "Backend address")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error, fatal)")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write logs to this file, rotated")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Ring workers for local backends (0 uses the default)")
	root.PersistentFlags().StringArrayVar(&opts.mounts, "mount", nil, "Mount another backend, as path=address")
	root.PersistentFlags().StringArrayVar(&opts.mountsRO, "mount-ro", nil, "Mount another backend read-only, as path=address")

	for _, c := range builtin.Commands() {
		root.AddCommand(newBuiltinCommand(opts, c))
	}
	root.AddCommand(newShellCommand(opts))

	return root
}

func (o *rootOptions) address() (string, error) {
	if o.backend != "" {
		return o.backend, nil
	}
	if env := os.Getenv("ASYNCFS_BACKEND"); env != "" {
		return env, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return "local://" + wd, nil
}

// open connects to the configured backend. Logs go to stderr so they never
// mix with command output.
func (o *rootOptions) open(c *cobra.Command) (backend.FileSystem, error) {
	address, err := o.address()
	if err != nil {
		return nil, err
	}

	level, err := log.Parse(o.logLevel)
	if err != nil {
		return nil, err
	}

	logOpts := []log.Option{log.WithLevel(level), log.WithOutput(c.ErrOrStderr())}
	if o.logFile != "" {
		logOpts = append(logOpts, log.WithFile(o.logFile))
	}

	fsOpts := []asyncfs.Option{
		asyncfs.WithLogger(log.New("asyncfs", logOpts...)),
		asyncfs.WithWorkers(o.workers),
	}
	if len(o.mounts) == 0 && len(o.mountsRO) == 0 {
		return asyncfs.Open(c.Context(), address, fsOpts...)
	}

	points := []asyncfs.MountPoint{{Address: address}}
	for _, ro := range []bool{false, true} {
		values := o.mounts
		if ro {
			values = o.mountsRO
		}
		for _, value := range values {
			point, err := asyncfs.ParseMountPoint(value, ro)
			if err != nil {
				return nil, err
			}
			points = append(points, point)
		}
	}
	return asyncfs.OpenMounts(c.Context(), points, fsOpts...)
}

// newBuiltinCommand exposes c as a cobra subcommand, translating its flag set.
func newBuiltinCommand(opts *rootOptions, c cmd.Command) *cobra.Command {
	flagSet := c.GetFlags()

	cc := &cobra.Command{
		Use:   c.Usage(),
		Short: c.Description(),
		RunE: func(cc *cobra.Command, args []string) error {
			fs, err := opts.open(cc)
			if err != nil {
				return err
			}
			defer fs.Close(cc.Context())

			parsed, err := commandArgs(cc, flagSet, args)
			if err != nil {
				return err
			}

			code, err := c.Execute(cc.Context(), fs, parsed, cc.OutOrStdout())
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("%s exited with code %d", c.Name(), code)
			}
			return nil
		},
	}

	if flagSet == nil {
		return cc
	}

	for _, flag := range flagSet.Flags {
		switch flag.Type {
		case "bool":
			def, _ := flag.Default.(bool)
			cc.Flags().BoolP(flag.Name, flag.Short, def, flag.Description)
		case "int":
			def, _ := flag.Default.(int64)
			cc.Flags().Int64P(flag.Name, flag.Short, def, flag.Description)
		default:
			def, _ := flag.Default.(string)
			cc.Flags().StringP(flag.Name, flag.Short, def, flag.Description)
		}
		if flag.Required {
			_ = cc.MarkFlagRequired(flag.Name)
		}
	}
	return cc
}

// commandArgs mirrors cmd.Parser: set and defaulted flags are present,
// everything else is absent.
func commandArgs(cc *cobra.Command, flagSet *cmd.CommandFlagSet, args []string) (*cmd.CommandArgs, error) {
	parsed := &cmd.CommandArgs{
		Args:  args,
		Flags: make(map[string]any),
		Raw:   args,
	}
	if flagSet == nil {
		return parsed, nil
	}

	for name, flag := range flagSet.Flags {
		if !cc.Flags().Changed(flag.Name) && flag.Default == nil {
			continue
		}

		var (
			v   any
			err error
		)
		switch flag.Type {
		case "bool":
			v, err = cc.Flags().GetBool(flag.Name)
		case "int":
			v, err = cc.Flags().GetInt64(flag.Name)
		default:
			v, err = cc.Flags().GetString(flag.Name)
		}
		if err != nil {
			return nil, err
		}
		parsed.Flags[name] = v
	}
	return parsed, nil
}
