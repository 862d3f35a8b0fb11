package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/example/homework-scheduler/internal/application"
	"github.com/example/homework-scheduler/internal/client"
	"github.com/example/homework-scheduler/internal/config"
	"github.com/example/homework-scheduler/internal/logging"
	"github.com/example/homework-scheduler/internal/persistence/memory"
	"github.com/example/homework-scheduler/internal/persistence/migration"
	"github.com/example/homework-scheduler/internal/persistence/postgres"
	"github.com/example/homework-scheduler/internal/persistence/sqlite"
)

// store is what the commands need from any backend.
type store interface {
	application.HomeworkRepository
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// migrationReporter is implemented by SQL backends.
type migrationReporter interface {
	MigrationStatus(ctx context.Context) (migration.Status, error)
}

func loadConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.New(), nil
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := sqlite.Open(sqlite.ParseDSN(cfg.DatabaseURL), logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func newClient(cfg config.Config, logger *slog.Logger) *client.Client {
	url := strings.TrimSpace(serverURL)
	if url == "" {
		url = cfg.ServerURL
	}
	return client.New(url, client.WithLogger(logger))
}

func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
