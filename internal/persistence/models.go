package persistence

import "time"

// Homework is a homework assignment as stored by a backend. Subject is kept as
// its display string.
type Homework struct {
	ID           string
	Subject      string
	Title        string
	Description  string
	AssignedDate time.Time
	DueDate      time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
