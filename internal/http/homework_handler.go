package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/example/homework-scheduler/internal/application"
)

type homeworkService interface {
	ListHomeworks(ctx context.Context) ([]application.Homework, error)
	GetHomework(ctx context.Context, id string) (application.Homework, error)
	CreateHomework(ctx context.Context, input application.HomeworkInput) (application.Homework, []application.ConflictWarning, error)
	UpdateHomework(ctx context.Context, id string, patch application.HomeworkPatch) (application.Homework, []application.ConflictWarning, error)
	DeleteHomework(ctx context.Context, id string) error
	CheckConflicts(ctx context.Context, dueDate, excludeID string) ([]application.ConflictWarning, error)
}

type HomeworkHandler struct {
	service   homeworkService
	responder responder
	logger    *slog.Logger
}

func NewHomeworkHandler(service homeworkService, logger *slog.Logger, exposeDetails bool) *HomeworkHandler {
	return &HomeworkHandler{service: service, responder: newResponder(logger, exposeDetails), logger: logger}
}

func (h *HomeworkHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	homeworks, err := h.service.ListHomeworks(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	body, err := json.Marshal(toHomeworkDTOs(homeworks))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	sum := blake2b.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		requestLogger(r, h.logger, "HomeworkHandler", "List").ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}

func (h *HomeworkHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := HomeworkIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHomeworkID)
		return
	}

	homework, err := h.service.GetHomework(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHomeworkDTO(homework))
}

func (h *HomeworkHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req homeworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	homework, warnings, err := h.service.CreateHomework(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderHomework(r.Context(), w, homework, warnings, http.StatusCreated)
}

func (h *HomeworkHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := HomeworkIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHomeworkID)
		return
	}

	var req homeworkPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	homework, warnings, err := h.service.UpdateHomework(r.Context(), id, req.toPatch())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.renderHomework(r.Context(), w, homework, warnings, http.StatusOK)
}

func (h *HomeworkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := HomeworkIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHomeworkID)
		return
	}

	if err := h.service.DeleteHomework(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	requestLogger(r, h.logger, "HomeworkHandler", "Delete").InfoContext(r.Context(), "homework deleted")

	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Homework deleted successfully"})
}

func (h *HomeworkHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req checkConflictsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	warnings, err := h.service.CheckConflicts(r.Context(), req.DueDate, req.ID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWarningDTOs(warnings))
}

func (h *HomeworkHandler) renderHomework(ctx context.Context, w http.ResponseWriter, homework application.Homework, warnings []application.ConflictWarning, status int) {
	payload := homeworkResponse{
		Homework: toHomeworkDTO(homework),
		Warnings: toWarningDTOs(warnings),
	}
	h.responder.writeJSON(ctx, w, status, payload)
}

type homeworkRequest struct {
	Subject      string `json:"subject"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedDate string `json:"assignedDate"`
	DueDate      string `json:"dueDate"`
	CreatedBy    string `json:"createdBy"`
}

func (r homeworkRequest) toInput() application.HomeworkInput {
	return application.HomeworkInput{
		Subject:      r.Subject,
		Title:        r.Title,
		Description:  r.Description,
		AssignedDate: r.AssignedDate,
		DueDate:      r.DueDate,
		CreatedBy:    r.CreatedBy,
	}
}

type homeworkPatchRequest struct {
	Subject      *string `json:"subject"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	AssignedDate *string `json:"assignedDate"`
	DueDate      *string `json:"dueDate"`
	CreatedBy    *string `json:"createdBy"`
}

func (r homeworkPatchRequest) toPatch() application.HomeworkPatch {
	return application.HomeworkPatch{
		Subject:      r.Subject,
		Title:        r.Title,
		Description:  r.Description,
		AssignedDate: r.AssignedDate,
		DueDate:      r.DueDate,
		CreatedBy:    r.CreatedBy,
	}
}

type checkConflictsRequest struct {
	DueDate string `json:"dueDate"`
	ID      string `json:"id"`
}

type homeworkResponse struct {
	Homework homeworkDTO          `json:"homework"`
	Warnings []conflictWarningDTO `json:"warnings"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type homeworkDTO struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedDate string `json:"assignedDate"`
	DueDate      string `json:"dueDate"`
	CreatedBy    string `json:"createdBy"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toHomeworkDTO(homework application.Homework) homeworkDTO {
	return homeworkDTO{
		ID:           homework.ID,
		Subject:      homework.Subject.String(),
		Title:        homework.Title,
		Description:  homework.Description,
		AssignedDate: homework.AssignedDate.UTC().Format(time.RFC3339Nano),
		DueDate:      homework.DueDate.UTC().Format(time.RFC3339Nano),
		CreatedBy:    homework.CreatedBy,
		CreatedAt:    homework.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    homework.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toHomeworkDTOs(homeworks []application.Homework) []homeworkDTO {
	out := make([]homeworkDTO, 0, len(homeworks))
	for _, homework := range homeworks {
		out = append(out, toHomeworkDTO(homework))
	}
	return out
}

type conflictWarningDTO struct {
	Type          string   `json:"type"`
	Message       string   `json:"message"`
	AffectedDates []string `json:"affectedDates,omitempty"`
}

func toWarningDTOs(warnings []application.ConflictWarning) []conflictWarningDTO {
	out := make([]conflictWarningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, conflictWarningDTO{
			Type:          string(warning.Kind),
			Message:       warning.Message,
			AffectedDates: append([]string(nil), warning.AffectedDates...),
		})
	}
	return out
}
