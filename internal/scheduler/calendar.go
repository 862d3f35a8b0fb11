package scheduler

import (
	"sort"
	"time"
)

// IsActiveOn reports whether day lies within the assignment's inclusive
// assigned..due range at calendar-day granularity. Inverted ranges are never
// active.
func IsActiveOn(day time.Time, a Assignment) bool {
	d := StartOfDay(day)
	start := StartOfDay(a.AssignedDate)
	end := StartOfDay(a.DueDate)
	return !d.Before(start) && !d.After(end)
}

// ActiveOn returns the assignments active on day, preserving input order. A
// nil subjects set disables subject filtering.
func ActiveOn(day time.Time, assignments []Assignment, subjects SubjectSet) []Assignment {
	out := make([]Assignment, 0)
	for _, a := range assignments {
		if !subjects.Contains(a.Subject) {
			continue
		}
		if IsActiveOn(day, a) {
			out = append(out, a)
		}
	}
	return out
}

// DayCell is one day of a month grid.
type DayCell struct {
	Date        time.Time
	Assignments []Assignment
}

// MonthGrid lays out the month containing month as Sunday-first weeks.
type MonthGrid struct {
	Month time.Time
	// Offset is the number of blank cells before the first day.
	Offset int
	Days   []DayCell
}

// BuildMonthGrid returns one cell per day of the month, each holding the
// assignments active on that day.
func BuildMonthGrid(month time.Time, assignments []Assignment, subjects SubjectSet) MonthGrid {
	first := StartOfDay(month).AddDate(0, 0, 1-month.Day())
	next := first.AddDate(0, 1, 0)

	grid := MonthGrid{
		Month:  first,
		Offset: int(first.Weekday()),
	}
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		grid.Days = append(grid.Days, DayCell{
			Date:        d,
			Assignments: ActiveOn(d, assignments, subjects),
		})
	}
	return grid
}

// DueGroup collects assignments due on the same day.
type DueGroup struct {
	Day         time.Time
	Today       bool
	Tomorrow    bool
	Assignments []Assignment
}

// Upcoming groups assignments due today or later by due day, earliest first.
// Within a group input order is kept.
func Upcoming(today time.Time, assignments []Assignment) []DueGroup {
	ref := StartOfDay(today)
	tomorrow := ref.AddDate(0, 0, 1)

	index := make(map[time.Time]int)
	groups := make([]DueGroup, 0)
	for _, a := range assignments {
		due := StartOfDay(a.DueDate)
		if due.Before(ref) {
			continue
		}
		i, ok := index[due]
		if !ok {
			i = len(groups)
			index[due] = i
			groups = append(groups, DueGroup{
				Day:      due,
				Today:    due.Equal(ref),
				Tomorrow: due.Equal(tomorrow),
			})
		}
		groups[i].Assignments = append(groups[i].Assignments, a)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day.Before(groups[j].Day)
	})
	return groups
}
