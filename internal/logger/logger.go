package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu           sync.RWMutex
	globalLogger = slog.New(&silentHandler{})
	errorLogger  = newHandlerLogger(os.Stderr, slog.LevelError)
	verboseMode  bool
)

// Init initializes the global logger with verbose mode setting.
// Output goes to stderr until SetOutput is called.
func Init(verbose bool) {
	initWithWriter(verbose, os.Stderr)
}

// SetOutput re-targets every logger, including the always-on error logger.
// The interactive shell uses it to keep log lines off the terminal it draws on.
func SetOutput(w io.Writer) {
	mu.RLock()
	verbose := verboseMode
	mu.RUnlock()
	initWithWriter(verbose, w)
}

func initWithWriter(verbose bool, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verboseMode = verbose
	errorLogger = newHandlerLogger(w, slog.LevelError)

	if verbose {
		globalLogger = newHandlerLogger(w, slog.LevelDebug)
	} else {
		// Silent logger for non-verbose mode
		globalLogger = slog.New(&silentHandler{})
	}
	slog.SetDefault(globalLogger)
}

func newHandlerLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindString {
				a.Value = slog.StringValue(Redact(a.Value.String()))
			}
			return a
		},
	}))
}

// silentHandler discards all log messages when verbose mode is disabled
type silentHandler struct{}

func (h *silentHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *silentHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *silentHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *silentHandler) WithGroup(_ string) slog.Handler {
	return h
}

func current() (*slog.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger, verboseMode
}

// Debug logs debug messages only in verbose mode
func Debug(msg string, args ...any) {
	if l, verbose := current(); verbose {
		l.Debug(msg, args...)
	}
}

// Info logs info messages only in verbose mode
func Info(msg string, args ...any) {
	if l, verbose := current(); verbose {
		l.Info(msg, args...)
	}
}

// Warn logs warning messages only in verbose mode
func Warn(msg string, args ...any) {
	if l, verbose := current(); verbose {
		l.Warn(msg, args...)
	}
}

// Error always logs error messages regardless of verbose mode
func Error(msg string, args ...any) {
	l, verbose := current()
	if verbose {
		l.Error(msg, args...)
		return
	}
	mu.RLock()
	el := errorLogger
	mu.RUnlock()
	el.Error(msg, args...)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	_, verbose := current()
	return verbose
}
