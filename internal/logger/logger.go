package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// ParseStarted logs the start of parsing a file
func (l *Logger) ParseStarted(file string) {
	l.Debug("parse started", "file", file)
}

// ParseCompleted logs a successful parse
func (l *Logger) ParseCompleted(file string, nodes int, duration time.Duration) {
	l.Debug("parse completed",
		"file", file,
		"nodes", nodes,
		"duration", duration.Round(time.Microsecond))
}

// ParseFailed logs a file that could not be parsed
func (l *Logger) ParseFailed(file string, err error) {
	l.Error("parse failed",
		"file", file,
		"error", err)
}

// FileWritten logs a file produced by a command
func (l *Logger) FileWritten(file, reason string) {
	l.Info("file written",
		"file", file,
		"reason", reason)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// IndexUpdated logs the outcome of an index run
func (l *Logger) IndexUpdated(updated, skipped, failed int, duration time.Duration) {
	l.Info("index updated",
		"updated", updated,
		"skipped", skipped,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, tabWidth, workers int) {
	l.Debug("config loaded",
		"path", path,
		"tab_width", tabWidth,
		"workers", workers)
}

// Tangled logs a tangle target
func (l *Logger) Tangled(target string, blocks int, dryRun bool) {
	l.Info("tangled",
		"target", target,
		"blocks", blocks,
		"dry_run", dryRun)
}
