package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/example/homework-scheduler/internal/persistence"
)

// Storage keeps homework assignments in process memory. It is safe for
// concurrent use and is intended for tests and throwaway deployments.
type Storage struct {
	mu        sync.RWMutex
	homeworks map[string]persistence.Homework
	revision  uint64
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{homeworks: make(map[string]persistence.Homework)}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// Migrate initialises the storage. No-op for the in-memory implementation.
func (s *Storage) Migrate(context.Context) error {
	return nil
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error {
	return nil
}

// CreateHomework stores a new assignment.
func (s *Storage) CreateHomework(ctx context.Context, homework persistence.Homework) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.homeworks[homework.ID]; ok {
		return fmt.Errorf("memory: homework %s: %w", homework.ID, persistence.ErrDuplicate)
	}
	s.homeworks[homework.ID] = homework
	s.revision++
	return nil
}

// UpdateHomework replaces an existing assignment.
func (s *Storage) UpdateHomework(ctx context.Context, homework persistence.Homework) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.homeworks[homework.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	homework.CreatedAt = current.CreatedAt
	s.homeworks[homework.ID] = homework
	s.revision++
	return nil
}

// GetHomework retrieves an assignment by ID.
func (s *Storage) GetHomework(ctx context.Context, id string) (persistence.Homework, error) {
	if err := ctx.Err(); err != nil {
		return persistence.Homework{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	homework, ok := s.homeworks[id]
	if !ok {
		return persistence.Homework{}, persistence.ErrNotFound
	}
	return homework, nil
}

// ListHomeworks returns all assignments ordered by due date ascending.
func (s *Storage) ListHomeworks(ctx context.Context) ([]persistence.Homework, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	list := make([]persistence.Homework, 0, len(s.homeworks))
	for _, homework := range s.homeworks {
		list = append(list, homework)
	}
	s.mu.RUnlock()

	persistence.SortHomeworks(list)
	return list, nil
}

// DeleteHomework removes an assignment by ID.
func (s *Storage) DeleteHomework(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.homeworks[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.homeworks, id)
	s.revision++
	return nil
}

// Revision returns a counter bumped by every successful write.
func (s *Storage) Revision(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strconv.FormatUint(s.revision, 10), nil
}
