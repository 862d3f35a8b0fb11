package application

import (
	"context"
	"time"

	"github.com/example/homework-scheduler/internal/scheduler"
)

// Calendar returns the calendar grid for the month containing month. A nil
// subjects set shows every subject.
func (s *HomeworkService) Calendar(ctx context.Context, month time.Time, subjects scheduler.SubjectSet) (MonthView, error) {
	list, index, err := s.snapshot(ctx)
	if err != nil {
		return MonthView{}, err
	}

	grid := scheduler.BuildMonthGrid(month, list, subjects)
	view := MonthView{
		Month:  grid.Month,
		Offset: grid.Offset,
		Days:   make([]DayView, 0, len(grid.Days)),
	}
	for _, cell := range grid.Days {
		view.Days = append(view.Days, DayView{Day: cell.Date, Homeworks: lookup(index, cell.Assignments)})
	}
	return view, nil
}

// Day returns the assignments active on day.
func (s *HomeworkService) Day(ctx context.Context, day time.Time, subjects scheduler.SubjectSet) (DayView, error) {
	list, index, err := s.snapshot(ctx)
	if err != nil {
		return DayView{}, err
	}
	return DayView{
		Day:       scheduler.StartOfDay(day),
		Homeworks: lookup(index, scheduler.ActiveOn(day, list, subjects)),
	}, nil
}

// Upcoming groups assignments due on or after today by due day.
func (s *HomeworkService) Upcoming(ctx context.Context, today time.Time) ([]UpcomingGroup, error) {
	list, index, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	groups := scheduler.Upcoming(today, list)
	out := make([]UpcomingGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, UpcomingGroup{
			Day:       g.Day,
			Today:     g.Today,
			Tomorrow:  g.Tomorrow,
			Homeworks: lookup(index, g.Assignments),
		})
	}
	return out, nil
}

func (s *HomeworkService) snapshot(ctx context.Context) ([]scheduler.Assignment, map[string]Homework, error) {
	homeworks, err := s.ListHomeworks(ctx)
	if err != nil {
		return nil, nil, err
	}
	list := make([]scheduler.Assignment, 0, len(homeworks))
	index := make(map[string]Homework, len(homeworks))
	for _, hw := range homeworks {
		list = append(list, toAssignment(hw))
		index[hw.ID] = hw
	}
	return list, index, nil
}

func lookup(index map[string]Homework, assignments []scheduler.Assignment) []Homework {
	out := make([]Homework, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, index[a.ID])
	}
	return out
}
