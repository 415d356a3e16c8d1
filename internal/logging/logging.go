// Package logging builds the charmbracelet/log loggers used across the app.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options mirror the subset of log.Options the app varies.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions are used for console output from subcommands.
func DefaultOptions() Options {
	return Options{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "todo",
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger { return log.New(io.Discard) }

// Open returns a logger appending logfmt lines to path, creating parent
// directories as needed. When path is empty it logs to fallback with
// opts unchanged. The returned close func is never nil.
func Open(path string, fallback io.Writer, opts Options) (*log.Logger, func() error, error) {
	noop := func() error { return nil }
	if path == "" {
		if fallback == nil {
			return Discard(), noop, nil
		}
		return New(fallback, opts), noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}
	opts.Formatter = log.LogfmtFormatter
	opts.ReportTimestamp = true
	return New(f, opts), f.Close, nil
}
