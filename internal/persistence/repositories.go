package persistence

import (
	"context"
	"sort"
)

// HomeworkRepository exposes CRUD operations for homework assignments.
type HomeworkRepository interface {
	CreateHomework(ctx context.Context, homework Homework) error
	UpdateHomework(ctx context.Context, homework Homework) error
	GetHomework(ctx context.Context, id string) (Homework, error)
	// ListHomeworks returns every assignment ordered by due date ascending.
	ListHomeworks(ctx context.Context) ([]Homework, error)
	DeleteHomework(ctx context.Context, id string) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RevisionReporter is implemented by stores that can cheaply report a token
// which changes whenever any assignment is written, by this process or another.
type RevisionReporter interface {
	Revision(ctx context.Context) (string, error)
}

// SortHomeworks orders assignments by due date, then creation time, then ID.
func SortHomeworks(list []Homework) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
