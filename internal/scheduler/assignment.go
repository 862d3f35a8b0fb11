package scheduler

import "time"

// Assignment is a stored homework assignment as seen by the engine.
type Assignment struct {
	ID           string
	Subject      Subject
	Title        string
	Description  string
	AssignedDate time.Time
	DueDate      time.Time
	CreatedBy    string
}

// Draft is a candidate assignment that has not necessarily been saved. The due
// date is kept in the caller's representation so warnings can echo it back.
type Draft struct {
	Subject      Subject
	Title        string
	AssignedDate string
	DueDate      string
}
