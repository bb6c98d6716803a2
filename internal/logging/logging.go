// Package logging provides small helpers for structured logging.
//
// Loggers are dependency-injected, never global: the base logger is built in
// main() and handed down, and each component scopes it once at construction
// time with slog.With. When a component receives no logger it falls back to a
// discard logger, so logging stays optional in tests.
package logging

import (
	"context"
	"log/slog"
)

// discardHandler is a handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns the provided logger if non-nil, otherwise a discard logger.
//
//	func NewUploader(logger *slog.Logger) *Uploader {
//	    logger = logging.Default(logger)
//	    return &Uploader{logger: logger.With("component", "uploader")}
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
