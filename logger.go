package pdfrender

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled returns false, so call sites
// skip attribute evaluation and formatting when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// active holds the process-wide logger. Swapped atomically, so SetLogger
// may race freely with logging from any goroutine.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for pdfrender and all its sub-packages.
// By default, pdfrender produces no log output. Call SetLogger to enable it.
// Passing nil restores the default silent logger.
//
// Log levels used by pdfrender:
//   - [slog.LevelDebug]: per-operation diagnostics (transforms, buffer sizes)
//   - [slog.LevelInfo]: lifecycle events (engine selected, GPU device opened)
//   - [slog.LevelWarn]: non-fatal issues (release errors, fallbacks)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	pdfrender.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	pdfrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	active.Store(l)
}

// Logger returns the current logger. Sub-packages (buffer/, texture/,
// channel/) call this to share one configuration without import cycles.
func Logger() *slog.Logger {
	return active.Load()
}
