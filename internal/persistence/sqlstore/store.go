package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/persistence/migration"
)

const homeworkColumns = `id, subject, title, description, assigned_date, due_date, created_by, created_at, updated_at`

// Store implements persistence.HomeworkRepository on top of database/sql.
type Store struct {
	pool       *ConnectionPool
	migrations fs.FS
	logger     *slog.Logger
}

// New builds a Store. migrations holds the backend's schema files.
func New(db *sql.DB, dialect Dialect, migrations fs.FS, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool:       NewConnectionPool(db, dialect),
		migrations: migrations,
		logger:     logger.With("store", dialect.Name()),
	}
}

// Pool exposes the underlying connection pool.
func (s *Store) Pool() *ConnectionPool {
	return s.pool
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.migrationManager().Run(ctx)
	if err != nil {
		return s.pool.dialect.MapError(err)
	}
	return nil
}

// MigrationStatus reports applied and pending schema migrations.
func (s *Store) MigrationStatus(ctx context.Context) (migration.Status, error) {
	return s.migrationManager().Status(ctx)
}

func (s *Store) migrationManager() *migration.Manager {
	return migration.NewManager(s.pool.db, s.migrations, s.pool.dialect.Placeholder, s.logger)
}

// CreateHomework inserts a new assignment.
func (s *Store) CreateHomework(ctx context.Context, hw persistence.Homework) error {
	query := s.pool.rebind(`INSERT INTO homeworks (` + homeworkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	d := s.pool.dialect
	_, err := s.pool.db.ExecContext(ctx, query,
		hw.ID,
		hw.Subject,
		hw.Title,
		hw.Description,
		d.EncodeTime(hw.AssignedDate),
		d.EncodeTime(hw.DueDate),
		hw.CreatedBy,
		d.EncodeTime(hw.CreatedAt),
		d.EncodeTime(hw.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert homework %s: %w", hw.ID, d.MapError(err))
	}
	return nil
}

// UpdateHomework overwrites the mutable fields of an existing assignment.
func (s *Store) UpdateHomework(ctx context.Context, hw persistence.Homework) error {
	query := s.pool.rebind(`UPDATE homeworks
		SET subject = ?, title = ?, description = ?, assigned_date = ?, due_date = ?, created_by = ?, updated_at = ?
		WHERE id = ?`)
	d := s.pool.dialect

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			hw.Subject,
			hw.Title,
			hw.Description,
			d.EncodeTime(hw.AssignedDate),
			d.EncodeTime(hw.DueDate),
			hw.CreatedBy,
			d.EncodeTime(hw.UpdatedAt),
			hw.ID,
		)
		if err != nil {
			return fmt.Errorf("update homework %s: %w", hw.ID, d.MapError(err))
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update homework %s: %w", hw.ID, d.MapError(err))
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetHomework retrieves an assignment by ID.
func (s *Store) GetHomework(ctx context.Context, id string) (persistence.Homework, error) {
	query := s.pool.rebind(`SELECT ` + homeworkColumns + ` FROM homeworks WHERE id = ?`)
	hw, err := scanHomework(s.pool.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Homework{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Homework{}, fmt.Errorf("get homework %s: %w", id, s.pool.dialect.MapError(err))
	}
	return hw, nil
}

// ListHomeworks returns every assignment ordered by due date ascending.
func (s *Store) ListHomeworks(ctx context.Context) ([]persistence.Homework, error) {
	query := `SELECT ` + homeworkColumns + ` FROM homeworks ORDER BY due_date ASC, created_at ASC, id ASC`
	rows, err := s.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list homeworks: %w", s.pool.dialect.MapError(err))
	}
	defer rows.Close()

	list := make([]persistence.Homework, 0)
	for rows.Next() {
		hw, err := scanHomework(rows)
		if err != nil {
			return nil, fmt.Errorf("list homeworks: %w", s.pool.dialect.MapError(err))
		}
		list = append(list, hw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list homeworks: %w", s.pool.dialect.MapError(err))
	}
	return list, nil
}

// DeleteHomework removes an assignment by ID.
func (s *Store) DeleteHomework(ctx context.Context, id string) error {
	query := s.pool.rebind(`DELETE FROM homeworks WHERE id = ?`)
	result, err := s.pool.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete homework %s: %w", id, s.pool.dialect.MapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete homework %s: %w", id, s.pool.dialect.MapError(err))
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// Revision summarises the table as its row count and latest update time.
// Any create, update or delete from any connection changes it.
func (s *Store) Revision(ctx context.Context) (string, error) {
	var (
		count  int64
		latest timestamp
	)
	row := s.pool.db.QueryRowContext(ctx, `SELECT COUNT(*), MAX(updated_at) FROM homeworks`)
	if err := row.Scan(&count, &latest); err != nil {
		return "", fmt.Errorf("homework revision: %w", s.pool.dialect.MapError(err))
	}
	return fmt.Sprintf("%d@%s", count, FormatTimestamp(latest.Time)), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHomework(row rowScanner) (persistence.Homework, error) {
	var hw persistence.Homework
	var assigned, due, createdAt, updatedAt timestamp
	if err := row.Scan(
		&hw.ID,
		&hw.Subject,
		&hw.Title,
		&hw.Description,
		&assigned,
		&due,
		&hw.CreatedBy,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Homework{}, err
	}
	hw.AssignedDate = assigned.Time
	hw.DueDate = due.Time
	hw.CreatedAt = createdAt.Time
	hw.UpdatedAt = updatedAt.Time
	return hw, nil
}
