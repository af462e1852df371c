package tryi

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so log calls
// return before building attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that writes nothing.
func NopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// current is the process-wide logger shared by tryi and its sub-packages.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(NopLogger())
}

// SetLogger installs l as the logger of tryi, evolve, store and preview.
// Evolvers built with evolve.WithLogger use their own logger instead.
// A nil l silences logging again, which is also the initial state.
//
// The search logs these events:
//   - Info "bootstrapping", "resuming" and "evolution finished" around a run
//   - Info "good" for a generation that improved the best genome, with the
//     generation number, the correct percentage and generations per second
//   - Debug "bad" for a generation that was discarded, and "bootstrap" for
//     every triangle added by the greedy construction
//   - Warn from the preview server when a websocket client falls behind
//
// SetLogger may be called while a search is running.
//
//	tryi.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = NopLogger()
	}
	current.Store(l)
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
