package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/persistence/sqlstore"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage is the SQLite homework store.
type Storage struct {
	*sqlstore.Store
}

// Open opens (creating if needed) the database described by cfg. Call Migrate
// before first use.
func Open(cfg Config, logger *slog.Logger) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping database: %w", mapError(err))
	}

	files, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{Store: sqlstore.New(db, dialect{}, files, logger)}, nil
}

type dialect struct{}

func (dialect) Name() string { return "sqlite" }

func (dialect) Placeholder(int) string { return "?" }

func (dialect) EncodeTime(t time.Time) any { return sqlstore.TextTime(t) }

func (dialect) MapError(err error) error { return mapError(err) }

// mapError maps SQLite errors to persistence layer errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
		}
		switch code & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB:
			return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"), strings.Contains(msg, "has no column named"):
		return fmt.Errorf("%w: %v", persistence.ErrSchemaMismatch, err)
	case errors.Is(err, sql.ErrConnDone), strings.Contains(msg, "database is locked"), strings.Contains(msg, "unable to open database"):
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	return err
}
