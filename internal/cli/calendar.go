package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/homework-scheduler/internal/client"
	"github.com/example/homework-scheduler/internal/scheduler"
)

var (
	calendarMonth    string
	calendarSubjects string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month calendar of active homeworks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month := time.Now()
		if strings.TrimSpace(calendarMonth) != "" {
			parsed, err := time.Parse("2006-01", strings.TrimSpace(calendarMonth))
			if err != nil {
				return fmt.Errorf("--month must be formatted as YYYY-MM")
			}
			month = parsed
		}
		subjects, err := scheduler.ParseSubjectSet(calendarSubjects)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := newClient(cfg, newLogger(cfg))

		homeworks, err := c.List(cmd.Context())
		if err != nil {
			return err
		}
		grid := monthGrid(month, homeworks, subjects)

		if jsonOutput {
			return outputJSON(grid)
		}
		renderMonth(grid)
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, defaults to the current month)")
	calendarCmd.Flags().StringVar(&calendarSubjects, "subjects", "", "Comma separated subjects to include")
}

func monthGrid(month time.Time, homeworks []client.Homework, subjects scheduler.SubjectSet) scheduler.MonthGrid {
	list := make([]scheduler.Assignment, 0, len(homeworks))
	for _, hw := range homeworks {
		list = append(list, hw.Assignment())
	}
	return scheduler.BuildMonthGrid(month, list, subjects)
}

func renderMonth(grid scheduler.MonthGrid) {
	PrintSection(grid.Month.Format("January 2006"))
	PrintDim(" Su  Mo  Tu  We  Th  Fr  Sa")

	var line strings.Builder
	line.WriteString(strings.Repeat("    ", grid.Offset))
	for i, day := range grid.Days {
		marker := " "
		if len(day.Assignments) > 0 {
			marker = "*"
		}
		fmt.Fprintf(&line, "%3d%s", day.Date.Day(), marker)
		if (grid.Offset+i+1)%7 == 0 {
			PrintInfo(line.String())
			line.Reset()
		}
	}
	if line.Len() > 0 {
		PrintInfo(line.String())
	}

	PrintInfo("")
	for _, day := range grid.Days {
		if len(day.Assignments) == 0 {
			continue
		}
		titles := make([]string, 0, len(day.Assignments))
		for _, a := range day.Assignments {
			titles = append(titles, fmt.Sprintf("%s: %s", a.Subject, a.Title))
		}
		PrintLabelValue(scheduler.FormatDay(day.Date), strings.Join(titles, "; "))
	}
}
