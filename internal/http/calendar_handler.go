package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/homework-scheduler/internal/application"
	"github.com/example/homework-scheduler/internal/scheduler"
)

type calendarService interface {
	Calendar(ctx context.Context, month time.Time, subjects scheduler.SubjectSet) (application.MonthView, error)
	Day(ctx context.Context, day time.Time, subjects scheduler.SubjectSet) (application.DayView, error)
	Upcoming(ctx context.Context, today time.Time) ([]application.UpcomingGroup, error)
	Ping(ctx context.Context) error
}

// CalendarHandler serves the read-only calendar and student views.
type CalendarHandler struct {
	service   calendarService
	responder responder
	now       func() time.Time
}

func NewCalendarHandler(service calendarService, now func() time.Time, logger *slog.Logger, exposeDetails bool) *CalendarHandler {
	if now == nil {
		now = time.Now
	}
	return &CalendarHandler{service: service, responder: newResponder(logger, exposeDetails), now: now}
}

func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	month := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonth)
			return
		}
		month = parsed
	}
	subjects, ok := h.subjects(w, r)
	if !ok {
		return
	}

	view, err := h.service.Calendar(r.Context(), month, subjects)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := monthDTO{
		Month:  view.Month.Format("2006-01"),
		Offset: view.Offset,
		Days:   make([]dayDTO, 0, len(view.Days)),
	}
	for _, day := range view.Days {
		payload.Days = append(payload.Days, toDayDTO(day))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request, rawDay string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	day, err := time.Parse(scheduler.DayLayout, strings.TrimSpace(rawDay))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
		return
	}
	subjects, ok := h.subjects(w, r)
	if !ok {
		return
	}

	view, err := h.service.Day(r.Context(), day, subjects)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayDTO(view))
}

func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	today := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("today")); raw != "" {
		parsed, err := time.Parse(scheduler.DayLayout, raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
			return
		}
		today = parsed
	}

	groups, err := h.service.Upcoming(r.Context(), today)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]upcomingGroupDTO, 0, len(groups))
	for _, group := range groups {
		payload = append(payload, upcomingGroupDTO{
			Date:      scheduler.FormatDay(group.Day),
			Today:     group.Today,
			Tomorrow:  group.Tomorrow,
			Homeworks: toHomeworkDTOs(group.Homeworks),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *CalendarHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	subjects := scheduler.Subjects()
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, s.String())
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

func (h *CalendarHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.service.Ping(r.Context()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "ok"})
}

func (h *CalendarHandler) subjects(w http.ResponseWriter, r *http.Request) (scheduler.SubjectSet, bool) {
	set, err := scheduler.ParseSubjectSet(r.URL.Query().Get("subjects"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjects)
		return nil, false
	}
	return set, true
}

type monthDTO struct {
	Month  string   `json:"month"`
	Offset int      `json:"offset"`
	Days   []dayDTO `json:"days"`
}

type dayDTO struct {
	Date      string        `json:"date"`
	Homeworks []homeworkDTO `json:"homeworks"`
}

func toDayDTO(view application.DayView) dayDTO {
	return dayDTO{
		Date:      scheduler.FormatDay(view.Day),
		Homeworks: toHomeworkDTOs(view.Homeworks),
	}
}

type upcomingGroupDTO struct {
	Date      string        `json:"date"`
	Today     bool          `json:"today"`
	Tomorrow  bool          `json:"tomorrow"`
	Homeworks []homeworkDTO `json:"homeworks"`
}
