package asyncfs

import (
	"fmt"

	"github.com/mwantia/asyncfs/log"
)

type Options struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	// Ring settings for local backends; address query parameters take precedence.
	Workers    int
	QueueDepth int64
	IOLimit    int64
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	return &Options{
		LogLevel: log.Info,
	}
}

func WithLogLevel(logLevel log.LogLevel) Option {
	return func(opts *Options) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() Option {
	return func(opts *Options) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) Option {
	return func(opts *Options) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger built from the other log options.
func WithLogger(logger *log.Logger) Option {
	return func(opts *Options) error {
		opts.Logger = logger
		return nil
	}
}

func WithWorkers(workers int) Option {
	return func(opts *Options) error {
		if workers < 0 {
			return fmt.Errorf("invalid worker count %d", workers)
		}
		opts.Workers = workers
		return nil
	}
}

func WithQueueDepth(depth int64) Option {
	return func(opts *Options) error {
		if depth < 0 {
			return fmt.Errorf("invalid queue depth %d", depth)
		}
		opts.QueueDepth = depth
		return nil
	}
}

// WithIOLimit throttles reads and writes of local backends to bytesPerSec.
func WithIOLimit(bytesPerSec int64) Option {
	return func(opts *Options) error {
		if bytesPerSec < 0 {
			return fmt.Errorf("invalid io limit %d", bytesPerSec)
		}
		opts.IOLimit = bytesPerSec
		return nil
	}
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	opts := []log.Option{log.WithLevel(o.LogLevel)}
	if o.LogFile != "" {
		opts = append(opts, log.WithFile(o.LogFile))
	}
	if o.NoTerminalLog {
		opts = append(opts, log.WithoutTerminal())
	}
	return log.New("asyncfs", opts...)
}
