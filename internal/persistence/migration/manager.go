package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"
)

// Manager orchestrates scanning, verification and execution of migrations.
type Manager struct {
	files    fs.FS
	executor *Executor
	logger   *slog.Logger
}

// NewManager wires a manager for the migrations in files.
func NewManager(db *sql.DB, files fs.FS, placeholder Placeholder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		files:    files,
		executor: NewExecutor(db, placeholder),
		logger:   logger.With("component", "migration"),
	}
}

// Run applies all pending migrations in version order and returns how many
// were applied.
func (m *Manager) Run(ctx context.Context) (int, error) {
	start := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}
	if len(status.Pending) == 0 {
		m.logger.DebugContext(ctx, "schema up to date", "version", status.CurrentVersion)
		return 0, nil
	}

	for i, migration := range status.Pending {
		m.logger.InfoContext(ctx, "applying migration",
			"version", migration.Version,
			"description", migration.Description,
			"position", fmt.Sprintf("%d/%d", i+1, len(status.Pending)),
		)
		if err := m.executor.ExecuteMigration(ctx, migration); err != nil {
			m.logger.ErrorContext(ctx, "migration failed", "version", migration.Version, "error", err)
			return i, err
		}
	}

	m.logger.InfoContext(ctx, "migrations applied",
		"count", len(status.Pending),
		"duration", time.Since(start),
	)
	return len(status.Pending), nil
}

// Status compares the migration files with the schema_migrations table.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	available, err := Scan(m.files)
	if err != nil {
		return Status{}, err
	}
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return Status{}, err
	}
	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return Status{}, err
	}

	byVersion := make(map[string]Migration, len(available))
	for _, migration := range available {
		byVersion[migration.Version] = migration
	}

	status := Status{Applied: applied}
	appliedSet := make(map[string]struct{}, len(applied))
	for _, a := range applied {
		file, ok := byVersion[a.Version]
		if !ok {
			return Status{}, NewMigrationError(a.Version, "", "verify applied", ErrUnknownVersion)
		}
		if file.Checksum != a.Checksum {
			return Status{}, NewMigrationError(a.Version, file.Name, "verify checksum", ErrChecksumMismatch)
		}
		appliedSet[a.Version] = struct{}{}
		status.CurrentVersion = a.Version
	}

	for _, migration := range available {
		if _, ok := appliedSet[migration.Version]; !ok {
			status.Pending = append(status.Pending, migration)
		}
	}
	return status, nil
}
