// Package logger builds the process-wide slog logger.
//
// Logs go to a file in the config directory so they never interleave with
// command output. --verbose additionally mirrors them to stderr.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file created inside the config directory.
const FileName = "panelctl.log"

type Config struct {
	Level   slog.Level
	LogFile string    // empty disables file output
	Stderr  io.Writer // non-nil mirrors records there
	Format  string    // "json" or "text"
}

// New returns a logger for cfg and a function that closes the log file.
// With no outputs configured the logger discards everything.
func New(cfg Config) (*slog.Logger, func() error, error) {
	var writers []io.Writer
	closeFn := func() error { return nil }

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logger: failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("logger: failed to open %s: %w", cfg.LogFile, err)
		}
		writers = append(writers, f)
		closeFn = f.Close
	}
	if cfg.Stderr != nil {
		writers = append(writers, cfg.Stderr)
	}

	if len(writers) == 0 {
		return slog.New(slog.DiscardHandler), closeFn, nil
	}

	w := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closeFn, nil
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithCommand tags records with the command path being run.
func WithCommand(l *slog.Logger, cmd string) *slog.Logger {
	return l.With("command", cmd)
}
