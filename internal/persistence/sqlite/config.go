package sqlite

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds SQLite-specific database configuration
type Config struct {
	// Path is the database file path, or ":memory:".
	Path string

	// BusyTimeout sets how long to wait for database locks
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode (WAL, DELETE, TRUNCATE, etc.)
	JournalMode string

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF)
	Synchronous string

	MaxOpenConns int
}

// DefaultConfig returns settings suited to a single-process server.
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		Synchronous:  "NORMAL",
		MaxOpenConns: 1,
	}
}

// ParseDSN accepts either a bare path or a file: URI and returns a Config
// with defaults applied.
func ParseDSN(dsn string) Config {
	path := strings.TrimSpace(dsn)
	path = strings.TrimPrefix(path, "sqlite://")
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "homework.db"
	}
	return DefaultConfig(path)
}

// DSN renders the modernc.org/sqlite connection string with pragmas.
func (c Config) DSN() string {
	values := url.Values{}
	if c.BusyTimeout > 0 {
		values.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	}
	values.Add("_pragma", "foreign_keys(1)")
	if c.JournalMode != "" && c.Path != ":memory:" {
		values.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	}
	if c.Synchronous != "" {
		values.Add("_pragma", fmt.Sprintf("synchronous(%s)", c.Synchronous))
	}
	return "file:" + c.Path + "?" + values.Encode()
}

// Validate validates the SQLite configuration
func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("sqlite: database path is required")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy timeout must not be negative")
	}
	switch strings.ToUpper(c.JournalMode) {
	case "", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("sqlite: invalid journal mode %q", c.JournalMode)
	}
	switch strings.ToUpper(c.Synchronous) {
	case "", "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return fmt.Errorf("sqlite: invalid synchronous mode %q", c.Synchronous)
	}
	return nil
}
