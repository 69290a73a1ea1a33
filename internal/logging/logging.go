// Package logging builds the slog logger shared by the CLI and the terminal
// UI. Records fan out to an optional console handler and an optional log
// file, both formatted by tint.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

const timeFormat = "2006-01-02 15:04:05"

type Options struct {
	Level slog.Level
	// Console receives colored output; nil disables the console handler.
	// The terminal UI leaves it nil so logs never draw over the screen.
	Console io.Writer
	// FilePath is appended to when set. Its directory is created.
	FilePath string
}

// Logger owns the log file, if any.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  *os.File
}

func New(opts Options) (*Logger, error) {
	level := new(slog.LevelVar)
	level.Set(opts.Level)

	var handlers []slog.Handler
	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      level,
			TimeFormat: timeFormat,
			NoColor:    !isTerminal(opts.Console),
		}))
	}

	var file *os.File
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "create log dir")
		}
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeConfig, err, "open log file %s", opts.FilePath)
		}
		file = f
		handlers = append(handlers, tint.NewHandler(f, &tint.Options{
			Level:      level,
			TimeFormat: timeFormat,
			NoColor:    true,
		}))
	}

	var h slog.Handler = slog.DiscardHandler
	switch len(handlers) {
	case 0:
	case 1:
		h = handlers[0]
	default:
		h = &FanoutHandler{handlers: handlers}
	}
	return &Logger{Logger: slog.New(h), level: level, file: file}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler), level: new(slog.LevelVar)}
}

func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel accepts debug, info, warn/warning and error. An empty string is
// info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errdef.New(errdef.CodeConfig, "unknown log level %q", s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FanoutHandler broadcasts records to multiple handlers.
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: next}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: next}
}
