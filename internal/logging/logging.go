// Package logging configures the process-wide structured logger.
//
// The TUI owns the terminal, so interactive runs log to a file. CLI commands
// log to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configure Setup.
type Options struct {
	Level  string    // debug, info, warn, error; empty means info
	File   string    // log file path; empty uses Writer
	Writer io.Writer // fallback sink when File is empty; nil discards
	JSON   bool
}

// Setup builds a logger from opts, installs it as the default and returns a
// closer for the underlying file.
func Setup(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := log.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level %q: %w", raw, err)
		}
		level = parsed
	}

	closer := func() error { return nil }
	var out io.Writer = io.Discard
	if opts.Writer != nil {
		out = opts.Writer
	}
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "ffscope",
		Formatter:       formatter,
	})
	log.SetDefault(logger)
	return logger, closer, nil
}

// For returns a child of the default logger tagged with a component name.
func For(component string) *log.Logger {
	return log.Default().With("component", component)
}
