package svgdib

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silent drops all records, and reports every level as disabled.
type silent struct{}

func (silent) Enabled(context.Context, slog.Level) bool  { return false }
func (silent) Handle(context.Context, slog.Record) error { return nil }
func (s silent) WithAttrs([]slog.Attr) slog.Handler      { return s }
func (s silent) WithGroup(string) slog.Handler           { return s }

var current atomic.Pointer[slog.Logger]

func init() { current.Store(slog.New(silent{})) }

// SetLogger installs the logger receiving the loading diagnostics:
// the pipeline stages at debug level, and device context release
// failures at warn level. A nil logger turns logging off, which is
// the default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(silent{})
	}
	current.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger { return current.Load() }
