package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect captures the differences between SQL backends.
type Dialect interface {
	Name() string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder(n int) string
	// EncodeTime converts a timestamp into a driver value for the backend's
	// timestamp columns.
	EncodeTime(t time.Time) any
	// MapError translates driver errors into persistence sentinel errors.
	MapError(err error) error
}

// TransactionFunc represents a function that executes within a transaction
type TransactionFunc func(tx *sql.Tx) error

// ConnectionPool wraps a database handle with dialect-aware helpers.
type ConnectionPool struct {
	db      *sql.DB
	dialect Dialect
}

// NewConnectionPool wraps db.
func NewConnectionPool(db *sql.DB, dialect Dialect) *ConnectionPool {
	return &ConnectionPool{db: db, dialect: dialect}
}

// DB returns the underlying database connection
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

// Dialect returns the backend dialect.
func (cp *ConnectionPool) Dialect() Dialect {
	return cp.dialect
}

// Close closes the connection pool
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	if err := cp.db.PingContext(ctx); err != nil {
		return cp.dialect.MapError(err)
	}
	return nil
}

// WithTransaction executes fn within a database transaction. The transaction
// is rolled back when fn returns an error or panics and committed otherwise.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", cp.dialect.MapError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", cp.dialect.MapError(err))
	}
	return nil
}

// rebind rewrites ? placeholders for the pool's dialect.
func (cp *ConnectionPool) rebind(query string) string {
	if cp.dialect.Placeholder(1) == "?" {
		return query
	}
	var (
		out []byte
		n   int
	)
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, cp.dialect.Placeholder(n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}
