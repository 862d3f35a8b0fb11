package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/homework-scheduler/internal/application"
)

// sampleHomeworks is the demo data loaded by "homework seed".
var sampleHomeworks = []application.HomeworkInput{
	{Subject: "Web", Title: "React Component Library", Description: "Build a reusable component library with 10 components", AssignedDate: "2024-01-15", DueDate: "2024-01-22", CreatedBy: "Prof. Smith"},
	{Subject: "Java", Title: "Spring Boot REST API", Description: "Create a RESTful API with CRUD operations", AssignedDate: "2024-01-16", DueDate: "2024-01-25", CreatedBy: "Prof. Johnson"},
	{Subject: "Database", Title: "SQL Query Optimization", Description: "Optimize 5 complex queries and write a report", AssignedDate: "2024-01-17", DueDate: "2024-01-24", CreatedBy: "Prof. Williams"},
	{Subject: "Spring", Title: "Dependency Injection Practice", Description: "Implement DI patterns in a sample application", AssignedDate: "2024-01-18", DueDate: "2024-01-26", CreatedBy: "Prof. Johnson"},
	{Subject: "Git", Title: "Version Control Workflow", Description: "Create a branching strategy document", AssignedDate: "2024-01-19", DueDate: "2024-01-23", CreatedBy: "Prof. Davis"},
	{Subject: "UX/UI", Title: "Design System Creation", Description: "Design a complete design system with components", AssignedDate: "2024-01-20", DueDate: "2024-01-27", CreatedBy: "Prof. Martinez"},
	{Subject: "Deployment", Title: "CI/CD Pipeline Setup", Description: "Set up automated deployment pipeline", AssignedDate: "2024-01-21", DueDate: "2024-01-28", CreatedBy: "Prof. Anderson"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all homeworks with sample data",
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

		count, err := seed(cmd, newHomeworkService(cfg, st, logger))
		if err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Created %s", pluralize(count, "homework assignment")))
		return nil
	},
}

func seed(cmd *cobra.Command, service *application.HomeworkService) (int, error) {
	ctx := cmd.Context()
	existing, err := service.ListHomeworks(ctx)
	if err != nil {
		return 0, err
	}
	for _, hw := range existing {
		if err := service.DeleteHomework(ctx, hw.ID); err != nil {
			return 0, fmt.Errorf("clear %s: %w", hw.ID, err)
		}
	}

	for _, input := range sampleHomeworks {
		if _, _, err := service.CreateHomework(ctx, input); err != nil {
			return 0, fmt.Errorf("create %q: %w", input.Title, err)
		}
	}
	return len(sampleHomeworks), nil
}
