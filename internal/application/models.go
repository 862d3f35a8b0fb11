package application

import (
	"time"

	"github.com/example/homework-scheduler/internal/scheduler"
)

// Homework represents a persisted homework assignment.
type Homework struct {
	ID           string
	Subject      scheduler.Subject
	Title        string
	Description  string
	AssignedDate time.Time
	DueDate      time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HomeworkInput captures caller provided fields for a new assignment. Dates are
// kept in their raw representation until validation.
type HomeworkInput struct {
	Subject      string `json:"subject" validate:"required,subject"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	AssignedDate string `json:"assignedDate" validate:"required,date"`
	DueDate      string `json:"dueDate" validate:"required,date"`
	CreatedBy    string `json:"createdBy" validate:"required"`
}

// HomeworkPatch carries a partial update. Nil or blank fields are left
// unchanged, except Description which may be cleared with an empty string.
type HomeworkPatch struct {
	Subject      *string
	Title        *string
	Description  *string
	AssignedDate *string
	DueDate      *string
	CreatedBy    *string
}

// ConflictWarning is an advisory scheduling notice returned alongside saves
// and conflict checks.
type ConflictWarning = scheduler.ConflictWarning

// ConflictCheck is the outcome of a conflict query. Local is set when the
// warnings were computed from a caller supplied snapshot because the store
// could not be read.
type ConflictCheck struct {
	Warnings []ConflictWarning
	Local    bool
}

// DayView lists the assignments active on a single day.
type DayView struct {
	Day       time.Time
	Homeworks []Homework
}

// MonthView is a calendar month with the assignments active on each day.
type MonthView struct {
	Month  time.Time
	Offset int
	Days   []DayView
}

// UpcomingGroup lists assignments due on the same day.
type UpcomingGroup struct {
	Day       time.Time
	Today     bool
	Tomorrow  bool
	Homeworks []Homework
}
