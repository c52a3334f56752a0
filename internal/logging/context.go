package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldProvider is the standardized structured logging key for rating provider names.
	FieldProvider = "provider"
	// FieldCycleID is the standardized structured logging key for refresh cycle identifiers.
	FieldCycleID = "cycle_id"
	// FieldItemID is the standardized structured logging key for catalog item identifiers.
	FieldItemID = "item_id"
	// FieldItemKind is the standardized structured logging key for catalog item kinds (movie/episode).
	FieldItemKind = "item_kind"
	// FieldTitle is the standardized structured logging key for item titles.
	FieldTitle = "title"
)

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger stores the logger on the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context logger, or a no-op logger when absent.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewNop()
}
