package scheduler

import (
	"testing"
	"time"
)

func ids(list []Assignment) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestIsActiveOn(t *testing.T) {
	a := assignment(t, "h1", SubjectWeb, "2024-01-15T09:30:00Z", "2024-01-22T17:00:00Z")

	tests := []struct {
		name string
		day  string
		want bool
	}{
		{name: "day before assigned", day: "2024-01-14", want: false},
		{name: "assigned day", day: "2024-01-15", want: true},
		{name: "middle of range", day: "2024-01-18", want: true},
		{name: "due day late evening", day: "2024-01-22T23:59:59Z", want: true},
		{name: "day after due", day: "2024-01-23", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsActiveOn(day(t, tc.day), a); got != tc.want {
				t.Fatalf("IsActiveOn(%s) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}

	t.Run("single day assignment", func(t *testing.T) {
		single := assignment(t, "h2", SubjectGit, "2024-01-19", "2024-01-19")
		if !IsActiveOn(day(t, "2024-01-19"), single) {
			t.Fatalf("expected assignment to be active on its only day")
		}
	})

	t.Run("inverted range is never active", func(t *testing.T) {
		inverted := assignment(t, "h3", SubjectGit, "2024-01-25", "2024-01-20")
		for d := day(t, "2024-01-18"); d.Before(day(t, "2024-01-28")); d = d.AddDate(0, 0, 1) {
			if IsActiveOn(d, inverted) {
				t.Fatalf("expected inverted range to be inactive on %s", FormatDay(d))
			}
		}
	})
}

func TestActiveOn(t *testing.T) {
	list := []Assignment{
		assignment(t, "h1", SubjectWeb, "2024-01-15", "2024-01-22"),
		assignment(t, "h2", SubjectJava, "2024-01-16", "2024-01-25"),
		assignment(t, "h3", SubjectDatabase, "2024-01-17", "2024-01-24"),
		assignment(t, "h4", SubjectSpring, "2024-01-23", "2024-01-26"),
	}

	t.Run("keeps input order", func(t *testing.T) {
		got := ids(ActiveOn(day(t, "2024-01-20"), list, nil))
		want := []string{"h1", "h2", "h3"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})

	t.Run("filters by subject", func(t *testing.T) {
		got := ids(ActiveOn(day(t, "2024-01-20"), list, NewSubjectSet(SubjectJava)))
		if len(got) != 1 || got[0] != "h2" {
			t.Fatalf("unexpected result: %v", got)
		}
	})

	t.Run("empty subject set matches nothing", func(t *testing.T) {
		got := ActiveOn(day(t, "2024-01-20"), list, NewSubjectSet())
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil result, got %v", got)
		}
	})

	t.Run("subset of input", func(t *testing.T) {
		got := ActiveOn(day(t, "2024-01-24"), list, nil)
		for _, a := range got {
			if !IsActiveOn(day(t, "2024-01-24"), a) {
				t.Fatalf("inactive assignment returned: %s", a.ID)
			}
		}
	})
}

func TestBuildMonthGrid(t *testing.T) {
	list := []Assignment{
		assignment(t, "h1", SubjectWeb, "2024-01-30", "2024-02-02"),
		assignment(t, "h2", SubjectGit, "2024-02-28", "2024-03-01"),
	}

	grid := BuildMonthGrid(day(t, "2024-02-14"), list, nil)
	if len(grid.Days) != 29 {
		t.Fatalf("expected 29 days for February 2024, got %d", len(grid.Days))
	}
	if grid.Offset != int(time.Thursday) {
		t.Fatalf("expected Thursday offset, got %d", grid.Offset)
	}
	if got := ids(grid.Days[0].Assignments); len(got) != 1 || got[0] != "h1" {
		t.Fatalf("unexpected first-day assignments: %v", got)
	}
	if got := grid.Days[2].Assignments; len(got) != 0 {
		t.Fatalf("expected no assignments on Feb 3, got %v", ids(got))
	}
	if got := ids(grid.Days[28].Assignments); len(got) != 1 || got[0] != "h2" {
		t.Fatalf("unexpected last-day assignments: %v", got)
	}
}

func TestUpcoming(t *testing.T) {
	list := []Assignment{
		assignment(t, "past", SubjectWeb, "2024-01-10", "2024-01-18"),
		assignment(t, "later", SubjectJava, "2024-01-16", "2024-01-25"),
		assignment(t, "today", SubjectGit, "2024-01-15", "2024-01-19"),
		assignment(t, "tomorrow", SubjectDatabase, "2024-01-17", "2024-01-20"),
		assignment(t, "later-2", SubjectSpring, "2024-01-18", "2024-01-25"),
	}

	groups := Upcoming(day(t, "2024-01-19T10:00:00Z"), list)
	if len(groups) != 3 {
		t.Fatalf("expected three groups, got %d", len(groups))
	}
	if !groups[0].Today || FormatDay(groups[0].Day) != "2024-01-19" {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if !groups[1].Tomorrow || FormatDay(groups[1].Day) != "2024-01-20" {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
	if got := ids(groups[2].Assignments); len(got) != 2 || got[0] != "later" || got[1] != "later-2" {
		t.Fatalf("unexpected grouping: %v", got)
	}
}
