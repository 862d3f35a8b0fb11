package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/homework-scheduler/internal/application"
	"github.com/example/homework-scheduler/internal/config"
	httptransport "github.com/example/homework-scheduler/internal/http"
	"github.com/example/homework-scheduler/internal/scheduler"
)

var serveSkipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the homework HTTP API",
	Long: `Start the HTTP API on HOMEWORK_HTTP_PORT using the configured store.
Pending migrations are applied before the listener opens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("failed to close storage", "error", cerr)
			}
		}()

		if !serveSkipMigrate {
			if err := st.Migrate(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
		}

		service := newHomeworkService(cfg, st, logger)
		server := newHTTPServer(cfg, service, logger)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to shutdown server", "error", err)
			}
		}()

		logger.Info("homework API listening", "addr", server.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server encountered error: %w", err)
		}
		logger.Info("homework API stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSkipMigrate, "skip-migrate", false, "Do not apply pending migrations on startup")
}

func newHomeworkService(cfg config.Config, repo application.HomeworkRepository, logger *slog.Logger) *application.HomeworkService {
	detector := scheduler.Detector{DueWindow: scheduler.DueWindow{
		Days:      cfg.DueWindowDays,
		Threshold: cfg.DueWindowThreshold,
	}}
	return application.NewHomeworkService(repo, uuid.NewString, time.Now,
		application.WithDetector(detector),
		application.WithWarningCacheTTL(cfg.WarningCacheTTL),
		application.WithLogger(logger),
	)
}

func newHTTPServer(cfg config.Config, service *application.HomeworkService, logger *slog.Logger) *http.Server {
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Homeworks: httptransport.NewHomeworkHandler(service, logger, cfg.Development()),
		Calendar:  httptransport.NewCalendarHandler(service, time.Now, logger, cfg.Development()),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
