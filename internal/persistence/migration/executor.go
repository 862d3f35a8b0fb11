package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// QuestionMark renders ? placeholders.
func QuestionMark(int) string { return "?" }

// Dollar renders $n placeholders.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Executor runs migrations and maintains the schema_migrations table.
type Executor struct {
	db          *sql.DB
	placeholder Placeholder
}

// NewExecutor creates a new migration executor
func NewExecutor(db *sql.DB, placeholder Placeholder) *Executor {
	if placeholder == nil {
		placeholder = QuestionMark
	}
	return &Executor{db: db, placeholder: placeholder}
}

// InitializeVersionTable creates the schema_migrations table if it doesn't exist
func (e *Executor) InitializeVersionTable(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			checksum TEXT NOT NULL,
			applied_at TEXT NOT NULL,
			execution_time_ms BIGINT NOT NULL
		)`
	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

// ExecuteMigration runs a single migration and records it within one transaction.
func (e *Executor) ExecuteMigration(ctx context.Context, migration Migration) (err error) {
	statements := splitStatements(migration.SQL)
	if len(statements) == 0 {
		return NewMigrationError(migration.Version, migration.Name, "parse SQL",
			fmt.Errorf("%w: no SQL statements found", ErrInvalidMigrationFile))
	}

	start := time.Now()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return NewMigrationError(migration.Version, migration.Name, "begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("%w (rollback error: %v)", err, rbErr)
			}
		}
	}()

	for i, stmt := range statements {
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			return NewMigrationError(migration.Version, migration.Name,
				fmt.Sprintf("execute statement %d", i+1), fmt.Errorf("%w: %v", ErrMigrationFailed, execErr))
		}
	}

	insert := fmt.Sprintf(
		`INSERT INTO schema_migrations (version, description, checksum, applied_at, execution_time_ms) VALUES (%s)`,
		e.placeholders(5),
	)
	if _, execErr := tx.ExecContext(ctx, insert,
		migration.Version,
		migration.Description,
		migration.Checksum,
		time.Now().UTC().Format(time.RFC3339),
		time.Since(start).Milliseconds(),
	); execErr != nil {
		return NewMigrationError(migration.Version, migration.Name, "record migration", execErr)
	}

	if err = tx.Commit(); err != nil {
		return NewMigrationError(migration.Version, migration.Name, "commit transaction", err)
	}
	return nil
}

// AppliedMigrations returns all applied migrations ordered by version
func (e *Executor) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	const query = `
		SELECT version, description, checksum, applied_at, execution_time_ms
		FROM schema_migrations
		ORDER BY version ASC`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
			millis    int64
		)
		if err := rows.Scan(&m.Version, &m.Description, &m.Checksum, &appliedAt, &millis); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		m.AppliedAt, _ = time.Parse(time.RFC3339, appliedAt)
		m.ExecutionTime = time.Duration(millis) * time.Millisecond
		applied = append(applied, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return applied, nil
}

func (e *Executor) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = e.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
