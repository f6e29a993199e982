// Package logging builds the root slog.Logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger pairs the root logger with its output so file-backed output can be
// closed during shutdown.
type Logger struct {
	*slog.Logger
	out io.Writer
}

// New builds a logger writing to stderr, or to a rotating file when
// cfg.File is set. cfg must already be finalized.
func New(cfg *Config) *Logger {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter builds a logger over an explicit writer.
func NewWithWriter(cfg *Config, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	return &Logger{Logger: slog.New(h), out: out}
}

// Close releases the rotating file, if any.
func (l *Logger) Close() error {
	if c, ok := l.out.(io.Closer); ok && l.out != os.Stderr {
		return c.Close()
	}
	return nil
}
