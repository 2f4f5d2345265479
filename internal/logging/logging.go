// SPDX-License-Identifier: MPL-2.0

// Package logging builds the CLI's logger: human-readable output on stderr
// and, when a file is configured, a size-rotated copy on disk.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 28
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File enables rotated file output at this path.
	File string
	// Stderr overrides os.Stderr.
	Stderr io.Writer
	Prefix string
}

// New creates the logger. The returned closer flushes and closes the log
// file and is never nil.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var (
		out              = stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stderr, rotating)
		closer = rotating
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          opts.Prefix,
		Level:           level,
		ReportTimestamp: opts.File != "",
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
