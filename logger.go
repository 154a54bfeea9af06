package guitex

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the package logger used by containers that were not
// given their own logger with WithLogger. By default nothing is logged.
// Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: frame flushes, cursor fallbacks, resize details
//   - [slog.LevelInfo]: negotiated pixel format, scene changes
//   - [slog.LevelWarn]: missing cursor assets, unknown popups, missing hooks
//   - [slog.LevelError]: panics recovered inside a copy section
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
