//go:build !nogpu

package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr is silent until pixquant.SetLogger reaches Backend.SetLogger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	setLogger(nil)
}

func slogger() *slog.Logger { return loggerPtr.Load() }

// setLogger swaps the logger used for device and dispatch records.
// A nil l restores silence.
func setLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}
