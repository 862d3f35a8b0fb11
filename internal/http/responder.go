package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/homework-scheduler/internal/application"
	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/scheduler"
)

var (
	errBadRequestBody    = errors.New("Invalid request body")
	errInvalidHomeworkID = errors.New("Invalid homework id")
	errInvalidMonth      = errors.New("month must be formatted as YYYY-MM")
	errInvalidDay        = errors.New("date must be formatted as YYYY-MM-DD")
	errInvalidSubjects   = errors.New("Invalid subject")
)

const (
	messageNotFound    = "Homework not found"
	messageUnavailable = "Cannot reach database server. Please check your database connection."
	messageSchema      = "Database schema mismatch. Please run: homework migrate"
	messageInternal    = "Internal server error"
)

type responder struct {
	logger *slog.Logger
	// exposeDetails adds the error chain to 5xx payloads. Development only.
	exposeDetails bool
}

func newResponder(logger *slog.Logger, exposeDetails bool) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger, exposeDetails: exposeDetails}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).InfoContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New(messageInternal))
		return
	}

	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: validationSummary(vErr),
			Errors:  vErr.FieldErrors,
		})
	case errors.Is(err, scheduler.ErrInvalidInput):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: messageNotFound})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: http.StatusText(http.StatusConflict)})
	case errors.Is(err, persistence.ErrUnavailable):
		r.serverError(ctx, w, http.StatusServiceUnavailable, messageUnavailable, err)
	case errors.Is(err, persistence.ErrSchemaMismatch):
		r.serverError(ctx, w, http.StatusInternalServerError, messageSchema, err)
	case errors.Is(err, context.Canceled):
		r.loggerFor(ctx).InfoContext(ctx, "request canceled", "error", err)
	default:
		r.serverError(ctx, w, http.StatusInternalServerError, messageInternal, err)
	}
}

func (r responder) serverError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err, "error_kind", application.ErrorKind(err))
	payload := errorResponse{Message: message}
	if r.exposeDetails {
		payload.Details = err.Error()
	}
	r.writeJSON(ctx, w, status, payload)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// validationSummary condenses field errors into the single top level message
// clients display.
func validationSummary(vErr *application.ValidationError) string {
	fields := vErr.FieldErrors
	for _, msg := range fields {
		if strings.HasSuffix(msg, " is required") {
			return "Missing required fields"
		}
	}
	if msg := fields["dueDate"]; msg == application.MessageMissingDueDate {
		return msg
	}
	if _, ok := fields["subject"]; ok {
		return "Invalid subject"
	}
	if _, ok := fields["assignedDate"]; ok {
		return "Invalid assigned date format"
	}
	if msg, ok := fields["dueDate"]; ok {
		if msg == application.MessageDueBeforeAssigned {
			return "Due date must not be before assigned date"
		}
		return "Invalid due date format"
	}
	return "Invalid request"
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Details string            `json:"details,omitempty"`
}
