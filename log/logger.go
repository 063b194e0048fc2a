package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	mu     *sync.Mutex
	writer io.Writer

	name    string
	level   LogLevel
	options *Options
}

// Options configure where and how a Logger writes.
type Options struct {
	Level      LogLevel
	TimeFormat string
	File       string
	NoColor    bool
	JSON       bool
	NoTerminal bool
	Rotation   *Rotation

	// Output replaces the terminal writer (stdout); mostly useful in tests.
	Output io.Writer
}

type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type Option func(*Options)

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func WithLevel(level LogLevel) Option {
	return func(o *Options) {
		o.Level = level
	}
}

func WithFile(file string) Option {
	return func(o *Options) {
		o.File = file
	}
}

func WithoutTerminal() Option {
	return func(o *Options) {
		o.NoTerminal = true
	}
}

func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
		o.NoColor = true
	}
}

func New(name string, opts ...Option) *Logger {
	options := &Options{
		Level:      Info,
		TimeFormat: "2006-01-02 15:04:05",
		Rotation: &Rotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
		},
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Logger{
		mu:      &sync.Mutex{},
		writer:  newWriter(options),
		name:    name,
		level:   options.Level,
		options: options,
	}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return &Logger{
		mu:      &sync.Mutex{},
		writer:  io.Discard,
		level:   Fatal + 1,
		options: &Options{NoColor: true},
	}
}

func newWriter(o *Options) io.Writer {
	var writers []io.Writer

	if !o.NoTerminal {
		if o.Output != nil {
			writers = append(writers, o.Output)
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	if o.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.Rotation.MaxSize,
			MaxBackups: o.Rotation.MaxBackups,
			MaxAge:     o.Rotation.MaxAge,
			Compress:   o.Rotation.Compress,
		})
	}

	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	timestamp := time.Now().Format(l.options.TimeFormat)
	formatted := fmt.Sprintf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.options.JSON {
		jsonBytes, _ := json.Marshal(logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.name,
			Message:   formatted,
		})
		fmt.Fprintf(l.writer, "%s\n", jsonBytes)
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.name)
		}

		if !l.options.NoTerminal && !l.options.NoColor {
			fmt.Fprintf(l.writer, "%s%s %s\033[0m\n", level.color(), prefix, formatted)
		} else {
			fmt.Fprintf(l.writer, "%s %s\n", prefix, formatted)
		}
	}

	if level == Fatal {
		os.Exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.log(Fatal, msg, args...)
}

// Named returns a child logger sharing the writer, named "<parent>/<name>".
func (l *Logger) Named(name string) *Logger {
	if l.name != "" {
		name = l.name + "/" + name
	}

	return &Logger{
		mu:      l.mu,
		writer:  l.writer,
		name:    name,
		level:   l.level,
		options: l.options,
	}
}
