package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/persistence/memory"
	"github.com/example/homework-scheduler/internal/persistence/sqlite"
	"github.com/example/homework-scheduler/internal/scheduler"
)

type failingRepository struct {
	*memory.Storage
	listErr error
	lists   int
}

func (r *failingRepository) ListHomeworks(ctx context.Context) ([]persistence.Homework, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Storage.ListHomeworks(ctx)
}

func newTestService(t *testing.T, repo HomeworkRepository, opts ...HomeworkServiceOption) *HomeworkService {
	t.Helper()
	seq := 0
	idGen := func() string {
		seq++
		return fmt.Sprintf("hw-%03d", seq)
	}
	now := func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return NewHomeworkService(repo, idGen, now, opts...)
}

func validInput(due string) HomeworkInput {
	return HomeworkInput{
		Subject:      "Java",
		Title:        "Collections exercise",
		Description:  "Chapter 4",
		AssignedDate: "2024-05-01",
		DueDate:      due,
		CreatedBy:    "Ms. Tanaka",
	}
}

func strPtr(s string) *string { return &s }

func TestHomeworkService_CreateHomework(t *testing.T) {
	t.Parallel()

	t.Run("stores assignment without warnings", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		hw, warnings, err := svc.CreateHomework(context.Background(), validInput("2024-05-10"))
		if err != nil {
			t.Fatalf("CreateHomework returned error: %v", err)
		}
		if hw.ID != "hw-001" {
			t.Fatalf("expected generated id, got %q", hw.ID)
		}
		if hw.Subject != scheduler.SubjectJava {
			t.Fatalf("expected Java subject, got %q", hw.Subject)
		}
		if len(warnings) != 0 {
			t.Fatalf("expected no warnings, got %#v", warnings)
		}

		stored, err := svc.GetHomework(context.Background(), hw.ID)
		if err != nil {
			t.Fatalf("GetHomework returned error: %v", err)
		}
		if stored.Title != "Collections exercise" || stored.CreatedBy != "Ms. Tanaka" {
			t.Fatalf("unexpected stored homework: %#v", stored)
		}
	})

	t.Run("reports same day conflicts against existing assignments", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())
		ctx := context.Background()

		if _, _, err := svc.CreateHomework(ctx, validInput("2024-05-10")); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
		_, warnings, err := svc.CreateHomework(ctx, validInput("2024-05-10"))
		if err != nil {
			t.Fatalf("CreateHomework returned error: %v", err)
		}
		if len(warnings) != 1 {
			t.Fatalf("expected one warning, got %#v", warnings)
		}
		if warnings[0].Kind != scheduler.KindSameDay {
			t.Fatalf("expected same day warning, got %q", warnings[0].Kind)
		}
		if warnings[0].Message != "1 other homework assignment(s) due on the same day" {
			t.Fatalf("unexpected message %q", warnings[0].Message)
		}
	})

	t.Run("accepts long free text fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		input := validInput("2024-05-10")
		input.Title = strings.Repeat("t", 201)
		input.Description = strings.Repeat("d", 6000)
		input.CreatedBy = strings.Repeat("c", 150)
		hw, _, err := svc.CreateHomework(context.Background(), input)
		if err != nil {
			t.Fatalf("CreateHomework returned error: %v", err)
		}
		if len(hw.Title) != 201 {
			t.Fatalf("expected title to be kept whole, got %d chars", len(hw.Title))
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		_, _, err := svc.CreateHomework(context.Background(), HomeworkInput{Subject: "Web"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"title", "assignedDate", "dueDate", "createdBy"} {
			if vErr.FieldErrors[field] != field+" is required" {
				t.Fatalf("expected required message for %s, got %q", field, vErr.FieldErrors[field])
			}
		}
	})

	t.Run("rejects unknown subject", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		input := validInput("2024-05-10")
		input.Subject = "Cobol"
		_, _, err := svc.CreateHomework(context.Background(), input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !strings.HasPrefix(vErr.FieldErrors["subject"], "subject must be one of") {
			t.Fatalf("unexpected subject message %q", vErr.FieldErrors["subject"])
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		input := validInput("next week")
		_, _, err := svc.CreateHomework(context.Background(), input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["dueDate"]; !ok {
			t.Fatalf("expected dueDate error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("rejects due date before assigned date", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		input := validInput("2024-04-30")
		_, _, err := svc.CreateHomework(context.Background(), input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["dueDate"] != "dueDate must not be before assignedDate" {
			t.Fatalf("unexpected message %q", vErr.FieldErrors["dueDate"])
		}
	})
}

func TestHomeworkService_UpdateHomework(t *testing.T) {
	t.Parallel()

	t.Run("applies partial changes and keeps the rest", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())
		ctx := context.Background()

		created, _, err := svc.CreateHomework(ctx, validInput("2024-05-10"))
		if err != nil {
			t.Fatalf("seed create failed: %v", err)
		}

		updated, warnings, err := svc.UpdateHomework(ctx, created.ID, HomeworkPatch{
			Title:       strPtr("Streams exercise"),
			Subject:     strPtr(""),
			Description: strPtr(""),
		})
		if err != nil {
			t.Fatalf("UpdateHomework returned error: %v", err)
		}
		if len(warnings) != 0 {
			t.Fatalf("expected the assignment itself to be excluded, got %#v", warnings)
		}
		if updated.Title != "Streams exercise" {
			t.Fatalf("expected title change, got %q", updated.Title)
		}
		if updated.Subject != scheduler.SubjectJava {
			t.Fatalf("expected blank subject to be ignored, got %q", updated.Subject)
		}
		if updated.Description != "" {
			t.Fatalf("expected description to be cleared, got %q", updated.Description)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("expected created timestamp to be preserved")
		}
		if !scheduler.SameDay(updated.DueDate, created.DueDate) {
			t.Fatalf("expected due date to be unchanged, got %v", updated.DueDate)
		}
	})

	t.Run("validates the merged record", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())
		ctx := context.Background()

		created, _, err := svc.CreateHomework(ctx, validInput("2024-05-10"))
		if err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
		_, _, err = svc.UpdateHomework(ctx, created.ID, HomeworkPatch{AssignedDate: strPtr("2024-06-01")})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("returns not found for unknown ids", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		_, _, err := svc.UpdateHomework(context.Background(), "missing", HomeworkPatch{Title: strPtr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestHomeworkService_DeleteHomework(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, memory.New())
	ctx := context.Background()

	created, _, err := svc.CreateHomework(ctx, validInput("2024-05-10"))
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if err := svc.DeleteHomework(ctx, created.ID); err != nil {
		t.Fatalf("DeleteHomework returned error: %v", err)
	}
	if _, err := svc.GetHomework(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteHomework(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestHomeworkService_ListHomeworksOrdersByDueDate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, memory.New())
	ctx := context.Background()
	for _, due := range []string{"2024-05-20", "2024-05-05", "2024-05-12"} {
		if _, _, err := svc.CreateHomework(ctx, validInput(due)); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	list, err := svc.ListHomeworks(ctx)
	if err != nil {
		t.Fatalf("ListHomeworks returned error: %v", err)
	}
	var got []string
	for _, hw := range list {
		got = append(got, scheduler.FormatDay(hw.DueDate))
	}
	want := "2024-05-05,2024-05-12,2024-05-20"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(got, ","))
	}
}

func TestHomeworkService_CheckConflicts(t *testing.T) {
	t.Parallel()

	t.Run("requires a due date", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		_, err := svc.CheckConflicts(context.Background(), "  ", "")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["dueDate"] != "Missing required field: dueDate" {
			t.Fatalf("unexpected message %q", vErr.FieldErrors["dueDate"])
		}
	})

	t.Run("rejects malformed due date", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		_, err := svc.CheckConflicts(context.Background(), "31/05/2024", "")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("excludes the given id", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())
		ctx := context.Background()

		created, _, err := svc.CreateHomework(ctx, validInput("2024-05-10"))
		if err != nil {
			t.Fatalf("seed create failed: %v", err)
		}

		warnings, err := svc.CheckConflicts(ctx, "2024-05-10", "")
		if err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if len(warnings) != 1 || warnings[0].AffectedDates[0] != "2024-05-10" {
			t.Fatalf("unexpected warnings %#v", warnings)
		}

		warnings, err = svc.CheckConflicts(ctx, "2024-05-10", created.ID)
		if err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if warnings == nil || len(warnings) != 0 {
			t.Fatalf("expected empty non-nil warnings, got %#v", warnings)
		}
	})

	t.Run("reads the store on every check by default", func(t *testing.T) {
		t.Parallel()
		repo := &failingRepository{Storage: memory.New()}
		svc := newTestService(t, repo)
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			if _, err := svc.CheckConflicts(ctx, "2024-05-10", ""); err != nil {
				t.Fatalf("CheckConflicts returned error: %v", err)
			}
		}
		if repo.lists != 2 {
			t.Fatalf("expected two store reads without a cache ttl, got %d", repo.lists)
		}
	})

	t.Run("sees writes made through another service", func(t *testing.T) {
		t.Parallel()
		store := memory.New()
		reader := newTestService(t, store, WithWarningCacheTTL(time.Minute))
		writer := newTestService(t, store, WithWarningCacheTTL(time.Minute))
		ctx := context.Background()

		before, err := reader.CheckConflicts(ctx, "2024-01-22", "")
		if err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if len(before) != 0 {
			t.Fatalf("expected no warnings on an empty store, got %#v", before)
		}

		input := validInput("2024-01-22")
		input.AssignedDate = "2024-01-15"
		if _, _, err := writer.CreateHomework(ctx, input); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		after, err := reader.CheckConflicts(ctx, "2024-01-22", "")
		if err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if len(after) != 1 || after[0].Kind != scheduler.KindSameDay {
			t.Fatalf("expected the other service's write to be visible, got %#v", after)
		}
	})

	t.Run("reuses cached results until a write", func(t *testing.T) {
		t.Parallel()
		repo := &failingRepository{Storage: memory.New()}
		svc := newTestService(t, repo, WithWarningCacheTTL(time.Minute))
		ctx := context.Background()

		if _, err := svc.CheckConflicts(ctx, "2024-05-10", ""); err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if _, err := svc.CheckConflicts(ctx, "2024-05-10", ""); err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if repo.lists != 1 {
			t.Fatalf("expected one store read, got %d", repo.lists)
		}

		if _, _, err := svc.CreateHomework(ctx, validInput("2024-05-10")); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		warnings, err := svc.CheckConflicts(ctx, "2024-05-10", "")
		if err != nil {
			t.Fatalf("CheckConflicts returned error: %v", err)
		}
		if len(warnings) != 1 {
			t.Fatalf("expected cache invalidation after create, got %#v", warnings)
		}
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		t.Parallel()
		repo := &failingRepository{Storage: memory.New(), listErr: persistence.ErrUnavailable}
		svc := newTestService(t, repo)

		_, err := svc.CheckConflicts(context.Background(), "2024-05-10", "")
		if !errors.Is(err, persistence.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
		if ErrorKind(err) != "connectivity" {
			t.Fatalf("expected connectivity kind, got %q", ErrorKind(err))
		}
	})
}

func TestHomeworkService_PreviewConflicts(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	snapshot := []Homework{
		{ID: "a", Subject: scheduler.SubjectWeb, AssignedDate: due.AddDate(0, 0, -3), DueDate: due},
		{ID: "b", Subject: scheduler.SubjectGit, AssignedDate: due.AddDate(0, 0, -3), DueDate: due},
	}

	t.Run("falls back to the snapshot when the store is unreachable", func(t *testing.T) {
		t.Parallel()
		repo := &failingRepository{Storage: memory.New(), listErr: persistence.ErrUnavailable}
		svc := newTestService(t, repo)

		check, err := svc.PreviewConflicts(context.Background(), "2024-05-10", "a", snapshot)
		if err != nil {
			t.Fatalf("PreviewConflicts returned error: %v", err)
		}
		if !check.Local {
			t.Fatalf("expected local evaluation")
		}
		if len(check.Warnings) != 1 || check.Warnings[0].Message != "1 other homework assignment(s) due on the same day" {
			t.Fatalf("unexpected warnings %#v", check.Warnings)
		}
	})

	t.Run("uses the store when reachable", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, memory.New())

		check, err := svc.PreviewConflicts(context.Background(), "2024-05-10", "", snapshot)
		if err != nil {
			t.Fatalf("PreviewConflicts returned error: %v", err)
		}
		if check.Local || len(check.Warnings) != 0 {
			t.Fatalf("expected remote evaluation against empty store, got %#v", check)
		}
	})

	t.Run("does not mask validation errors", func(t *testing.T) {
		t.Parallel()
		repo := &failingRepository{Storage: memory.New(), listErr: persistence.ErrUnavailable}
		svc := newTestService(t, repo)

		_, err := svc.PreviewConflicts(context.Background(), "", "", snapshot)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestHomeworkService_DueWindowDetector(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, memory.New(), WithDetector(scheduler.Detector{DueWindow: scheduler.DueWindow{Days: 2, Threshold: 1}}))
	ctx := context.Background()
	if _, _, err := svc.CreateHomework(ctx, validInput("2024-05-09")); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	warnings, err := svc.CheckConflicts(ctx, "2024-05-10", "")
	if err != nil {
		t.Fatalf("CheckConflicts returned error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != scheduler.KindDueWindow {
		t.Fatalf("expected due window warning, got %#v", warnings)
	}
}

func TestHomeworkService_Views(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, memory.New())
	ctx := context.Background()

	web := validInput("2024-05-03")
	web.Subject = "Web"
	if _, _, err := svc.CreateHomework(ctx, web); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if _, _, err := svc.CreateHomework(ctx, validInput("2024-05-10")); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	t.Run("month", func(t *testing.T) {
		month, err := svc.Calendar(ctx, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), nil)
		if err != nil {
			t.Fatalf("Calendar returned error: %v", err)
		}
		if len(month.Days) != 31 {
			t.Fatalf("expected 31 days, got %d", len(month.Days))
		}
		if month.Offset != 3 {
			t.Fatalf("expected May 2024 to start on Wednesday, got offset %d", month.Offset)
		}
		if got := len(month.Days[2].Homeworks); got != 2 {
			t.Fatalf("expected two assignments on May 3, got %d", got)
		}
		if got := len(month.Days[9].Homeworks); got != 1 {
			t.Fatalf("expected one assignment on May 10, got %d", got)
		}
	})

	t.Run("day with subject filter", func(t *testing.T) {
		subjects := scheduler.NewSubjectSet(scheduler.SubjectWeb)
		day, err := svc.Day(ctx, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), subjects)
		if err != nil {
			t.Fatalf("Day returned error: %v", err)
		}
		if len(day.Homeworks) != 1 || day.Homeworks[0].Subject != scheduler.SubjectWeb {
			t.Fatalf("unexpected day view %#v", day.Homeworks)
		}
	})

	t.Run("upcoming", func(t *testing.T) {
		groups, err := svc.Upcoming(ctx, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("Upcoming returned error: %v", err)
		}
		if len(groups) != 1 || !groups[0].Tomorrow {
			t.Fatalf("expected a single tomorrow group, got %#v", groups)
		}
		if groups[0].Homeworks[0].Subject != scheduler.SubjectJava {
			t.Fatalf("unexpected homework in group: %#v", groups[0].Homeworks[0])
		}
	})
}

func TestHomeworkService_OffsetTimestampKeepsCallerDay(t *testing.T) {
	t.Parallel()

	backends := map[string]func(t *testing.T) HomeworkRepository{
		"memory": func(t *testing.T) HomeworkRepository { return memory.New() },
		"sqlite": func(t *testing.T) HomeworkRepository {
			store, err := sqlite.Open(sqlite.DefaultConfig(filepath.Join(t.TempDir(), "homework.db")), slog.New(slog.NewTextHandler(io.Discard, nil)))
			if err != nil {
				t.Fatalf("sqlite.Open returned error: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			if err := store.Migrate(context.Background()); err != nil {
				t.Fatalf("Migrate returned error: %v", err)
			}
			return store
		},
	}

	for name, open := range backends {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, open(t))
			ctx := context.Background()

			input := validInput("2024-01-22T23:30:00-05:00")
			input.AssignedDate = "2024-01-15"
			created, _, err := svc.CreateHomework(ctx, input)
			if err != nil {
				t.Fatalf("CreateHomework returned error: %v", err)
			}
			want := time.Date(2024, time.January, 22, 0, 0, 0, 0, time.UTC)
			if !created.DueDate.Equal(want) {
				t.Fatalf("expected due day %v, got %v", want, created.DueDate)
			}

			stored, err := svc.GetHomework(ctx, created.ID)
			if err != nil {
				t.Fatalf("GetHomework returned error: %v", err)
			}
			if !stored.DueDate.Equal(want) {
				t.Fatalf("expected stored due day %v, got %v", want, stored.DueDate)
			}

			warnings, err := svc.CheckConflicts(ctx, "2024-01-22", "")
			if err != nil {
				t.Fatalf("CheckConflicts returned error: %v", err)
			}
			if len(warnings) != 1 {
				t.Fatalf("expected one warning on 2024-01-22, got %#v", warnings)
			}

			next, err := svc.Day(ctx, time.Date(2024, time.January, 23, 0, 0, 0, 0, time.UTC), nil)
			if err != nil {
				t.Fatalf("Day returned error: %v", err)
			}
			if len(next.Homeworks) != 0 {
				t.Fatalf("expected nothing active on 2024-01-23, got %#v", next.Homeworks)
			}
		})
	}
}
