package http

import (
	"log/slog"
	"net/http"
)

// requestLogger returns the request scoped logger tagged with the handler and
// operation. Routes carrying a homework id add it as homework_id.
func requestLogger(r *http.Request, fallback *slog.Logger, handler, operation string) *slog.Logger {
	logger := LoggerFromContext(r.Context())
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{"handler", handler, "operation", operation}
	if id, ok := HomeworkIDFromContext(r.Context()); ok && id != "" {
		attrs = append(attrs, "homework_id", id)
	}
	return logger.With(attrs...)
}
