// Package logging builds the charmbracelet loggers used by the CLI and dashboard.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/runboard/internal/parser"
)

const prefix = "runboard"

// New returns a timestamped logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}

// OpenFile returns a logger appending to path. The dashboard owns the
// terminal, so it logs here instead of stderr. The returned func closes the file.
func OpenFile(path, level string) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := New(file, level)
	if err != nil {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close on level error.
			_ = cerr
		}
		return nil, nil, err
	}
	return logger, file.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// LoadResult logs the outcome of one file load. Parse failures go to warn
// with their kind, other failures to error.
func LoadResult(logger *log.Logger, path string, rows int, err error) {
	if logger == nil {
		return
	}
	if err == nil {
		logger.Info("loaded file", "path", path, "rows", rows)
		return
	}
	if kind := parser.KindOf(err); kind != "" {
		logger.Warn("parse failed", "path", path, "kind", kind, "err", err)
		return
	}
	if errors.Is(err, parser.ErrNotCSV) || errors.Is(err, parser.ErrTooLarge) {
		logger.Warn("file rejected", "path", path, "err", err)
		return
	}
	logger.Error("load failed", "path", path, "err", err)
}
