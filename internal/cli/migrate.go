package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		st, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		PrintSuccess(fmt.Sprintf("Schema is up to date (%s store)", cfg.Store))
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		st, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer st.Close()

		reporter, ok := st.(migrationReporter)
		if !ok {
			PrintInfo(fmt.Sprintf("The %s store has no migrations", cfg.Store))
			return nil
		}
		status, err := reporter.MigrationStatus(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(status)
		}

		PrintSection("Migrations")
		current := status.CurrentVersion
		if current == "" {
			current = "none"
		}
		PrintLabelValue("Current version", current)
		for _, applied := range status.Applied {
			PrintSuccess(fmt.Sprintf("%s %s (applied %s)", applied.Version, applied.Description, applied.AppliedAt.Format("2006-01-02 15:04:05")))
		}
		for _, pending := range status.Pending {
			PrintWarning(fmt.Sprintf("%s %s (pending)", pending.Version, pending.Description))
		}
		if len(status.Pending) == 0 {
			PrintDim("No pending migrations")
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}
