package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/homework-scheduler/internal/persistence/memory"
	"github.com/example/homework-scheduler/internal/scheduler"
)

func TestServiceFactoryNewHomeworkService(t *testing.T) {
	factory := NewServiceFactory(WithIDGenerator(NewIDGenerator("hw")))
	svc := factory.NewHomeworkService(HomeworkServiceDeps{Homeworks: memory.New()})

	input := NewHomeworkFixture(WithDates(Day(2024, time.January, 15), Day(2024, time.January, 22))).Input()
	hw, warnings, err := svc.CreateHomework(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateHomework returned error: %v", err)
	}
	if want := NewIDGenerator("hw").Next(); hw.ID != want {
		t.Fatalf("expected generated ID %s, got %q", want, hw.ID)
	}
	if !hw.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected CreatedAt from factory clock, got %v", hw.CreatedAt)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", warnings)
	}
}

func TestServiceFactoryOverrides(t *testing.T) {
	now := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	factory := NewServiceFactory(WithClock(nil), WithIDGenerator(nil))
	svc := factory.NewHomeworkService(HomeworkServiceDeps{
		Homeworks:   memory.New(),
		IDGenerator: func() string { return "fixed" },
		Now:         func() time.Time { return now },
	})

	hw, _, err := svc.CreateHomework(context.Background(), NewHomeworkFixture().Input())
	if err != nil {
		t.Fatalf("CreateHomework returned error: %v", err)
	}
	if hw.ID != "fixed" || !hw.CreatedAt.Equal(now) {
		t.Fatalf("overrides not applied: %+v", hw)
	}
}

func TestSQLiteHarnessSeedsAndDetectsConflicts(t *testing.T) {
	harness := NewSQLiteHarness(t)
	due := Day(2024, time.February, 9)
	harness.Seed(t,
		NewHomeworkFixture(WithSubject(scheduler.SubjectJava), WithDueDate(due)),
		NewHomeworkFixture(WithSubject(scheduler.SubjectGit), WithDueDate(due.AddDate(0, 0, 1))),
	)

	svc := NewServiceFactory().NewHomeworkService(HomeworkServiceDeps{Homeworks: harness.Homeworks})
	warnings, err := svc.CheckConflicts(context.Background(), "2024-02-09", "")
	if err != nil {
		t.Fatalf("CheckConflicts returned error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != scheduler.KindSameDay {
		t.Fatalf("expected one same-day warning, got %+v", warnings)
	}
}

func TestHomeworkFixtureConversions(t *testing.T) {
	f := NewHomeworkFixture(WithHomeworkID("hw-x"), WithTitle("Routing"), WithSubject(scheduler.SubjectWeb))

	if got := f.Persistence(); got.ID != "hw-x" || got.Subject != "Web" {
		t.Fatalf("unexpected persistence value: %+v", got)
	}
	if got := f.Assignment(); got.Title != "Routing" || got.Subject != scheduler.SubjectWeb {
		t.Fatalf("unexpected assignment: %+v", got)
	}
	if got := f.Input(); got.AssignedDate != "2024-01-02" || got.DueDate != "2024-01-09" {
		t.Fatalf("unexpected input dates: %+v", got)
	}
}

func TestSQLiteHarnessKeepsOffsetDueDay(t *testing.T) {
	harness := NewSQLiteHarness(t)
	svc := NewServiceFactory().NewHomeworkService(HomeworkServiceDeps{Homeworks: harness.Homeworks})
	ctx := context.Background()

	input := NewHomeworkFixture().Input()
	input.AssignedDate = "2024-01-15"
	input.DueDate = "2024-01-22T23:30:00-05:00"
	if _, _, err := svc.CreateHomework(ctx, input); err != nil {
		t.Fatalf("CreateHomework returned error: %v", err)
	}

	warnings, err := svc.CheckConflicts(ctx, "2024-01-22", "")
	if err != nil {
		t.Fatalf("CheckConflicts returned error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected the stored due day to stay 2024-01-22, got %+v", warnings)
	}

	day, err := svc.Day(ctx, Day(2024, time.January, 23), nil)
	if err != nil {
		t.Fatalf("Day returned error: %v", err)
	}
	if len(day.Homeworks) != 0 {
		t.Fatalf("expected nothing active on 2024-01-23, got %+v", day.Homeworks)
	}
}

func TestServiceFactoryClockDrivesUpcoming(t *testing.T) {
	harness := NewSQLiteHarness(t)
	clock := NewClock(time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC))
	due := clock.Today().AddDate(0, 0, 1)
	harness.Seed(t, NewHomeworkFixture(WithDates(clock.Today().AddDate(0, 0, -3), due)))

	svc := NewServiceFactory(WithClock(clock)).NewHomeworkService(HomeworkServiceDeps{Homeworks: harness.Homeworks})
	ctx := context.Background()

	groups, err := svc.Upcoming(ctx, clock.Today())
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(groups) != 1 || !groups[0].Tomorrow {
		t.Fatalf("expected a single tomorrow group, got %+v", groups)
	}

	clock.AdvanceDays(1)
	groups, err = svc.Upcoming(ctx, clock.Today())
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(groups) != 1 || !groups[0].Today {
		t.Fatalf("expected the group to be due today after a day passes, got %+v", groups)
	}

	clock.AdvanceDays(1)
	groups, err = svc.Upcoming(ctx, clock.Today())
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected overdue work to drop out, got %+v", groups)
	}
}
