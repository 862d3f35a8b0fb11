package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/example/homework-scheduler/internal/persistence"
	"github.com/example/homework-scheduler/internal/persistence/migration"
	"github.com/example/homework-scheduler/internal/persistence/sqlstore"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage is the PostgreSQL homework store.
type Storage struct {
	*sqlstore.Store
}

// Open connects to the database at databaseURL through the pgx stdlib driver.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Storage, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("postgres: database URL is required")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping database: %w", mapError(err))
	}

	files, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{Store: sqlstore.New(db, dialect{}, files, logger)}, nil
}

type dialect struct{}

func (dialect) Name() string { return "postgres" }

func (dialect) Placeholder(n int) string { return migration.Dollar(n) }

func (dialect) EncodeTime(t time.Time) any { return t.UTC() }

func (dialect) MapError(err error) error { return mapError(err) }

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
		case pgErr.Code == "42P01", // undefined_table
			pgErr.Code == "42703": // undefined_column
			return fmt.Errorf("%w: %v", persistence.ErrSchemaMismatch, err)
		case strings.HasPrefix(pgErr.Code, "08"), // connection_exception
			pgErr.Code == "57P01", // admin_shutdown
			pgErr.Code == "57P03", // cannot_connect_now
			pgErr.Code == "53300": // too_many_connections
			return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", persistence.ErrUnavailable, err)
	}
	return err
}
