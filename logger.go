package pixquant

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false for all levels, so
// attributes of disabled log calls are never evaluated.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the logger shared by processors, sessions and the
// registered GPU backend. It is never nil.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger routes pixquant diagnostics to l and hands l to the registered
// GPU backend. A nil l silences logging again, which is also the state
// before the first call. It may be called while images are being processed.
//
// Records emitted per level:
//   - [slog.LevelDebug]: session generations, GPU device and pass plans
//   - [slog.LevelInfo]: palettes too large for the GPU, shared device installed
//   - [slog.LevelWarn]: a GPU failure or panic that was retried on the CPU
//
// For example, to trace a CLI run:
//
//	pixquant.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	if b := GPU(); b != nil {
		propagateLogger(b, l)
	}
}

// Logger returns the logger set by SetLogger, or a silent one.
// The GPU backend and the CLI log through it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is the optional logging hook of a GPUBackend.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger forwards l to b when b has a logging hook.
func propagateLogger(b GPUBackend, l *slog.Logger) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
