package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/scheduler"
)

// Messages attached to dueDate field errors.
const (
	MessageMissingDueDate    = "Missing required field: dueDate"
	MessageInvalidDueDate    = "dueDate must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	MessageDueBeforeAssigned = "dueDate must not be before assignedDate"
)

// HomeworkRepository captures the persistence interactions needed by the service.
type HomeworkRepository interface {
	CreateHomework(ctx context.Context, homework persistence.Homework) error
	UpdateHomework(ctx context.Context, homework persistence.Homework) error
	GetHomework(ctx context.Context, id string) (persistence.Homework, error)
	ListHomeworks(ctx context.Context) ([]persistence.Homework, error)
	DeleteHomework(ctx context.Context, id string) error
}

// HomeworkService orchestrates validation, persistence and conflict detection
// for homework assignments.
type HomeworkService struct {
	homeworks   HomeworkRepository
	detector    scheduler.Detector
	validator   *inputValidator
	cache       *warningCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// HomeworkServiceOption customises a HomeworkService.
type HomeworkServiceOption func(*HomeworkService)

// WithDetector replaces the default same-day detector.
func WithDetector(detector scheduler.Detector) HomeworkServiceOption {
	return func(s *HomeworkService) {
		s.detector = detector
	}
}

// WithWarningCacheTTL enables reuse of conflict check results for up to ttl
// while the store revision is unchanged. Stores that do not implement
// persistence.RevisionReporter are never cached.
func WithWarningCacheTTL(ttl time.Duration) HomeworkServiceOption {
	return func(s *HomeworkService) {
		s.cache = newWarningCache(ttl, 256, s.now)
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) HomeworkServiceOption {
	return func(s *HomeworkService) {
		s.logger = defaultLogger(logger)
	}
}

// NewHomeworkService wires dependencies for homework operations.
func NewHomeworkService(homeworks HomeworkRepository, idGenerator func() string, now func() time.Time, opts ...HomeworkServiceOption) *HomeworkService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	s := &HomeworkService{
		homeworks:   homeworks,
		validator:   newInputValidator(),
		idGenerator: idGenerator,
		now:         now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HomeworkService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HomeworkService", operation, attrs...)
}

// ListHomeworks returns every assignment ordered by due date ascending.
func (s *HomeworkService) ListHomeworks(ctx context.Context) ([]Homework, error) {
	if s == nil || s.homeworks == nil {
		return nil, fmt.Errorf("homework repository not configured")
	}
	records, err := s.homeworks.ListHomeworks(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListHomeworks").ErrorContext(ctx, "failed to list homeworks", "error", err, "error_kind", ErrorKind(err))
		return nil, mapRepoError(err)
	}
	out := make([]Homework, 0, len(records))
	for _, record := range records {
		out = append(out, fromPersistence(record))
	}
	return out, nil
}

// GetHomework returns a single assignment.
func (s *HomeworkService) GetHomework(ctx context.Context, id string) (Homework, error) {
	if s == nil || s.homeworks == nil {
		return Homework{}, fmt.Errorf("homework repository not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Homework{}, ErrNotFound
	}
	record, err := s.homeworks.GetHomework(ctx, id)
	if err != nil {
		return Homework{}, mapRepoError(err)
	}
	return fromPersistence(record), nil
}

// CreateHomework validates and stores a new assignment. The returned warnings
// are computed against the assignments that existed before the insert.
func (s *HomeworkService) CreateHomework(ctx context.Context, input HomeworkInput) (Homework, []ConflictWarning, error) {
	if s == nil || s.homeworks == nil {
		return Homework{}, nil, fmt.Errorf("homework repository not configured")
	}
	logger := s.loggerWith(ctx, "CreateHomework")

	input = normalizeInput(input)
	homework, vErr := s.buildHomework(input)
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "homework rejected", "error_kind", "validation", "fields", len(vErr.FieldErrors))
		return Homework{}, nil, vErr
	}

	existing, err := s.assignments(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load homeworks for conflict detection", "error", err, "error_kind", ErrorKind(err))
		return Homework{}, nil, err
	}
	warnings, err := s.detector.Detect(toDraft(input), existing, "")
	if err != nil {
		return Homework{}, nil, newFieldError("dueDate", err.Error())
	}

	created := s.now()
	homework.ID = s.idGenerator()
	homework.CreatedAt = created
	homework.UpdatedAt = created

	if err := s.homeworks.CreateHomework(ctx, toPersistence(homework)); err != nil {
		logger.ErrorContext(ctx, "failed to create homework", "error", err, "error_kind", ErrorKind(err))
		return Homework{}, nil, mapRepoError(err)
	}
	s.cache.reset()

	logger.With("homework_id", homework.ID).InfoContext(ctx, "homework created", "warnings", len(warnings))
	return homework, warnings, nil
}

// UpdateHomework applies a partial update. Validation runs on the merged
// record and warnings exclude the assignment itself.
func (s *HomeworkService) UpdateHomework(ctx context.Context, id string, patch HomeworkPatch) (Homework, []ConflictWarning, error) {
	if s == nil || s.homeworks == nil {
		return Homework{}, nil, fmt.Errorf("homework repository not configured")
	}
	logger := s.loggerWith(ctx, "UpdateHomework", "homework_id", id)

	current, err := s.GetHomework(ctx, id)
	if err != nil {
		return Homework{}, nil, err
	}

	input := normalizeInput(applyPatch(current, patch))
	updated, vErr := s.buildHomework(input)
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "homework update rejected", "error_kind", "validation", "fields", len(vErr.FieldErrors))
		return Homework{}, nil, vErr
	}

	existing, err := s.assignments(ctx)
	if err != nil {
		return Homework{}, nil, err
	}
	warnings, err := s.detector.Detect(toDraft(input), existing, current.ID)
	if err != nil {
		return Homework{}, nil, newFieldError("dueDate", err.Error())
	}

	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now()

	if err := s.homeworks.UpdateHomework(ctx, toPersistence(updated)); err != nil {
		logger.ErrorContext(ctx, "failed to update homework", "error", err, "error_kind", ErrorKind(err))
		return Homework{}, nil, mapRepoError(err)
	}
	s.cache.reset()

	logger.InfoContext(ctx, "homework updated", "warnings", len(warnings))
	return updated, warnings, nil
}

// DeleteHomework removes an assignment.
func (s *HomeworkService) DeleteHomework(ctx context.Context, id string) error {
	if s == nil || s.homeworks == nil {
		return fmt.Errorf("homework repository not configured")
	}
	logger := s.loggerWith(ctx, "DeleteHomework", "homework_id", id)

	if err := s.homeworks.DeleteHomework(ctx, strings.TrimSpace(id)); err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			logger.ErrorContext(ctx, "failed to delete homework", "error", err, "error_kind", ErrorKind(err))
		}
		return mapRepoError(err)
	}
	s.cache.reset()

	logger.InfoContext(ctx, "homework deleted")
	return nil
}

// CheckConflicts evaluates a due date against the stored assignments,
// ignoring excludeID. Store failures are returned unchanged.
func (s *HomeworkService) CheckConflicts(ctx context.Context, dueDate, excludeID string) ([]ConflictWarning, error) {
	if s == nil || s.homeworks == nil {
		return nil, fmt.Errorf("homework repository not configured")
	}
	dueDate = strings.TrimSpace(dueDate)
	excludeID = strings.TrimSpace(excludeID)
	if dueDate == "" {
		return nil, newFieldError("dueDate", MessageMissingDueDate)
	}
	if _, err := scheduler.ParseDate(dueDate); err != nil {
		return nil, newFieldError("dueDate", MessageInvalidDueDate)
	}

	key := warningKey{Due: dueDate, ExcludeID: excludeID}
	revision, cacheable := s.storeRevision(ctx)
	if cacheable {
		if cached, ok := s.cache.lookup(revision, key); ok {
			return cached, nil
		}
	}

	existing, err := s.assignments(ctx)
	if err != nil {
		s.loggerWith(ctx, "CheckConflicts").ErrorContext(ctx, "failed to load homeworks", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	warnings, err := s.detector.Detect(scheduler.Draft{DueDate: dueDate}, existing, excludeID)
	if err != nil {
		return nil, newFieldError("dueDate", err.Error())
	}

	if cacheable {
		s.cache.remember(revision, key, warnings)
	}
	return warnings, nil
}

// storeRevision reports the store's current revision when caching applies.
func (s *HomeworkService) storeRevision(ctx context.Context) (string, bool) {
	if !s.cache.enabled() {
		return "", false
	}
	reporter, ok := s.homeworks.(persistence.RevisionReporter)
	if !ok {
		return "", false
	}
	revision, err := reporter.Revision(ctx)
	if err != nil {
		s.loggerWith(ctx, "CheckConflicts").DebugContext(ctx, "store revision unavailable, skipping cache", "error", err)
		return "", false
	}
	return revision, true
}

// PreviewConflicts behaves like CheckConflicts but falls back to evaluating
// snapshot locally when the store cannot be read. Validation errors are never
// masked.
func (s *HomeworkService) PreviewConflicts(ctx context.Context, dueDate, excludeID string, snapshot []Homework) (ConflictCheck, error) {
	if s == nil {
		return ConflictCheck{}, fmt.Errorf("HomeworkService is nil")
	}
	warnings, err := s.CheckConflicts(ctx, dueDate, excludeID)
	if err == nil {
		return ConflictCheck{Warnings: warnings}, nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return ConflictCheck{}, err
	}

	s.loggerWith(ctx, "PreviewConflicts").WarnContext(ctx, "falling back to local conflict detection", "error", err, "error_kind", ErrorKind(err))
	existing := make([]scheduler.Assignment, 0, len(snapshot))
	for _, hw := range snapshot {
		existing = append(existing, toAssignment(hw))
	}
	local, lerr := s.detector.Detect(scheduler.Draft{DueDate: strings.TrimSpace(dueDate)}, existing, strings.TrimSpace(excludeID))
	if lerr != nil {
		return ConflictCheck{}, newFieldError("dueDate", lerr.Error())
	}
	return ConflictCheck{Warnings: local, Local: true}, nil
}

// Ping reports whether the backing store is reachable.
func (s *HomeworkService) Ping(ctx context.Context) error {
	if s == nil || s.homeworks == nil {
		return fmt.Errorf("homework repository not configured")
	}
	if checker, ok := s.homeworks.(persistence.HealthChecker); ok {
		return checker.Ping(ctx)
	}
	_, err := s.homeworks.ListHomeworks(ctx)
	return err
}

func (s *HomeworkService) assignments(ctx context.Context) ([]scheduler.Assignment, error) {
	records, err := s.homeworks.ListHomeworks(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	out := make([]scheduler.Assignment, 0, len(records))
	for _, record := range records {
		out = append(out, toAssignment(fromPersistence(record)))
	}
	return out, nil
}

// buildHomework validates input and converts it into a Homework without
// identity or bookkeeping timestamps.
func (s *HomeworkService) buildHomework(input HomeworkInput) (Homework, *ValidationError) {
	vErr := &ValidationError{}
	vErr.merge(s.validator.check(input))
	if vErr.HasErrors() {
		return Homework{}, vErr
	}

	subject, _ := scheduler.ParseSubject(input.Subject)
	assigned, _ := scheduler.ParseDate(input.AssignedDate)
	due, _ := scheduler.ParseDate(input.DueDate)
	// Stored dates are the caller's wall-clock day at midnight UTC so every
	// backend reads back the same calendar day.
	assigned = scheduler.StartOfDay(assigned)
	due = scheduler.StartOfDay(due)
	if assigned.After(due) {
		vErr.add("dueDate", MessageDueBeforeAssigned)
		return Homework{}, vErr
	}

	return Homework{
		Subject:      subject,
		Title:        input.Title,
		Description:  input.Description,
		AssignedDate: assigned,
		DueDate:      due,
		CreatedBy:    input.CreatedBy,
	}, nil
}

func applyPatch(current Homework, patch HomeworkPatch) HomeworkInput {
	input := HomeworkInput{
		Subject:      string(current.Subject),
		Title:        current.Title,
		Description:  current.Description,
		AssignedDate: current.AssignedDate.Format(time.RFC3339Nano),
		DueDate:      current.DueDate.Format(time.RFC3339Nano),
		CreatedBy:    current.CreatedBy,
	}
	set := func(dst *string, value *string) {
		if value != nil && strings.TrimSpace(*value) != "" {
			*dst = *value
		}
	}
	set(&input.Subject, patch.Subject)
	set(&input.Title, patch.Title)
	set(&input.AssignedDate, patch.AssignedDate)
	set(&input.DueDate, patch.DueDate)
	set(&input.CreatedBy, patch.CreatedBy)
	if patch.Description != nil {
		input.Description = *patch.Description
	}
	return input
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}

func toDraft(input HomeworkInput) scheduler.Draft {
	subject, _ := scheduler.ParseSubject(input.Subject)
	return scheduler.Draft{
		Subject:      subject,
		Title:        input.Title,
		AssignedDate: input.AssignedDate,
		DueDate:      input.DueDate,
	}
}

func toAssignment(hw Homework) scheduler.Assignment {
	return scheduler.Assignment{
		ID:           hw.ID,
		Subject:      hw.Subject,
		Title:        hw.Title,
		Description:  hw.Description,
		AssignedDate: hw.AssignedDate,
		DueDate:      hw.DueDate,
		CreatedBy:    hw.CreatedBy,
	}
}

func fromPersistence(record persistence.Homework) Homework {
	return Homework{
		ID:           record.ID,
		Subject:      scheduler.Subject(record.Subject),
		Title:        record.Title,
		Description:  record.Description,
		AssignedDate: record.AssignedDate,
		DueDate:      record.DueDate,
		CreatedBy:    record.CreatedBy,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toPersistence(hw Homework) persistence.Homework {
	return persistence.Homework{
		ID:           hw.ID,
		Subject:      string(hw.Subject),
		Title:        hw.Title,
		Description:  hw.Description,
		AssignedDate: hw.AssignedDate,
		DueDate:      hw.DueDate,
		CreatedBy:    hw.CreatedBy,
		CreatedAt:    hw.CreatedAt,
		UpdatedAt:    hw.UpdatedAt,
	}
}
