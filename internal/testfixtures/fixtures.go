package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/homework-scheduler/internal/application"
	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/scheduler"
)

var homeworkCounter uint64

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Day returns midnight UTC of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// HomeworkFixture represents a deterministic homework record that can be
// materialised for scheduler, application or persistence tests.
type HomeworkFixture struct {
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

// HomeworkOption configures the generated homework fixture.
type HomeworkOption func(*HomeworkFixture)

// NewHomeworkFixture returns a deterministic homework fixture with optional
// overrides. Each call assigns the next ID and a due date one week after the
// assigned date.
func NewHomeworkFixture(opts ...HomeworkOption) HomeworkFixture {
	idx := atomic.AddUint64(&homeworkCounter, 1)
	assigned := Day(referenceTime.Year(), referenceTime.Month(), referenceTime.Day())
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := HomeworkFixture{
		ID:           fmt.Sprintf("homework-%03d", idx),
		Subject:      scheduler.SubjectDatabase,
		Title:        fmt.Sprintf("Homework %03d", idx),
		AssignedDate: assigned,
		DueDate:      assigned.AddDate(0, 0, 7),
		CreatedBy:    "Prof. Williams",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHomeworkID overrides the generated ID.
func WithHomeworkID(id string) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.ID = id
	}
}

// WithSubject overrides the subject.
func WithSubject(subject scheduler.Subject) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.Subject = subject
	}
}

// WithTitle overrides the title.
func WithTitle(title string) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.Title = title
	}
}

// WithDescription sets the description.
func WithDescription(description string) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.Description = description
	}
}

// WithDates sets the assigned and due dates.
func WithDates(assigned, due time.Time) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.AssignedDate = assigned
		f.DueDate = due
	}
}

// WithDueDate moves the due date, leaving the assigned date untouched.
func WithDueDate(due time.Time) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.DueDate = due
	}
}

// WithCreatedBy overrides the author.
func WithCreatedBy(name string) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.CreatedBy = name
	}
}

// WithTimestamps sets both created and updated timestamps.
func WithTimestamps(created, updated time.Time) HomeworkOption {
	return func(f *HomeworkFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Homework value.
func (f HomeworkFixture) Application() application.Homework {
	return application.Homework{
		ID:           f.ID,
		Subject:      f.Subject,
		Title:        f.Title,
		Description:  f.Description,
		AssignedDate: f.AssignedDate,
		DueDate:      f.DueDate,
		CreatedBy:    f.CreatedBy,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.HomeworkInput with dates in
// YYYY-MM-DD form.
func (f HomeworkFixture) Input() application.HomeworkInput {
	return application.HomeworkInput{
		Subject:      f.Subject.String(),
		Title:        f.Title,
		Description:  f.Description,
		AssignedDate: f.AssignedDate.Format("2006-01-02"),
		DueDate:      f.DueDate.Format("2006-01-02"),
		CreatedBy:    f.CreatedBy,
	}
}

// Persistence returns the fixture as a persistence.Homework value.
func (f HomeworkFixture) Persistence() persistence.Homework {
	return persistence.Homework{
		ID:           f.ID,
		Subject:      f.Subject.String(),
		Title:        f.Title,
		Description:  f.Description,
		AssignedDate: f.AssignedDate,
		DueDate:      f.DueDate,
		CreatedBy:    f.CreatedBy,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Assignment returns the fixture as a scheduler.Assignment value.
func (f HomeworkFixture) Assignment() scheduler.Assignment {
	return scheduler.Assignment{
		ID:           f.ID,
		Subject:      f.Subject,
		Title:        f.Title,
		Description:  f.Description,
		AssignedDate: f.AssignedDate,
		DueDate:      f.DueDate,
		CreatedBy:    f.CreatedBy,
	}
}
