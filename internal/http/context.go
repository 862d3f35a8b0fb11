package http

import (
	"context"
	"log/slog"

	"github.com/example/homework-scheduler/internal/logging"
)

type contextKey string

const homeworkIDContextKey contextKey = "homework_id"

// ContextWithHomeworkID injects the homework identifier resolved from the request path.
func ContextWithHomeworkID(ctx context.Context, homeworkID string) context.Context {
	return context.WithValue(ctx, homeworkIDContextKey, homeworkID)
}

// HomeworkIDFromContext extracts a homework identifier previously associated with the context.
func HomeworkIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(homeworkIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
