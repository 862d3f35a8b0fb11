package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	checkDue string
	checkID  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a due date for conflicting homeworks",
	Long: `Ask the server which homeworks are already due on the given day.

When the server cannot be reached the check runs locally against the last
homework list and the result is marked as a local preview.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(checkDue) == "" {
			return errors.New("--due is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := newClient(cfg, newLogger(cfg))

		// Prime the snapshot used by the local fallback; a failure here is
		// reported by the check itself.
		_, _ = c.List(cmd.Context())

		result, err := c.CheckConflicts(cmd.Context(), checkDue, checkID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Local {
			PrintWarning("Server unreachable, showing a local preview")
		}
		if len(result.Warnings) == 0 {
			PrintSuccess(fmt.Sprintf("No conflicts on %s", checkDue))
			return nil
		}
		for _, w := range result.Warnings {
			PrintWarning(w.Message)
			if len(w.AffectedDates) > 0 {
				PrintLabelValue("Dates", strings.Join(w.AffectedDates, ", "))
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkDue, "due", "", "Due date to check (YYYY-MM-DD)")
	checkCmd.Flags().StringVar(&checkID, "id", "", "Homework id to exclude when editing")
}
