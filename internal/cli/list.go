package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/homework-scheduler/internal/scheduler"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List homeworks ordered by due date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := newClient(cfg, newLogger(cfg))

		homeworks, err := c.List(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(homeworks)
		}

		if len(homeworks) == 0 {
			PrintInfo("No homeworks found")
			return nil
		}

		PrintSection(fmt.Sprintf("Homeworks (%d)", len(homeworks)))
		for _, hw := range homeworks {
			PrintInfo(fmt.Sprintf("%s  %-10s %s", scheduler.FormatDay(hw.DueDate), hw.Subject, hw.Title))
			PrintDim(fmt.Sprintf("            %s, assigned %s, id %s", hw.CreatedBy, scheduler.FormatDay(hw.AssignedDate), hw.ID))
		}
		return nil
	},
}
