// Package logging holds the structured logger shared by the editing core.
//
// The core is silent by default. Front ends install a logger with SetLogger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for every core package. Passing nil restores the
// silent default.
//
// Levels used:
//   - [slog.LevelDebug]: rejected undo/redo, skipped stamps, cache rebuilds
//   - [slog.LevelInfo]: layer lifecycle, saves
//   - [slog.LevelWarn]: malformed commands, invalid settings
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
