package contrail

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// logger is the active logger. Contrail is single-threaded, so a plain
// variable is enough; set it before starting the frame loop.
var logger = slog.New(nopHandler{})

// SetLogger configures the logger for contrail and its backends.
// By default contrail produces no log output. Pass nil to silence it again.
//
// Log levels used by contrail:
//   - [slog.LevelDebug]: per-frame stats in debug mode, skipped spawns
//   - [slog.LevelInfo]: flight resets, texture loads
//   - [slog.LevelWarn]: non-fatal failures (texture decode errors)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger = l
}

// Logger returns the current logger. Backend packages log through it so a
// single SetLogger call configures everything.
func Logger() *slog.Logger {
	return logger
}
