package log

import (
	"context"
	"log/slog"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores the request id for downstream loggers.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom returns the request id stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithRequestID returns logger annotated with the request id in ctx, if any.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return logger.With("request_id", id)
	}

	return logger
}
