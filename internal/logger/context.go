package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// WithContext stores a request scoped logger in ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithContext, or fallback.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}
