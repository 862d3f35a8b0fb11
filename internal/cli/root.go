package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	serverURL  string
)

// rootCmd is the root command for homework.
var rootCmd = &cobra.Command{
	Use:     "homework",
	Version: "dev",
	Short:   "Homework scheduler with due date conflict warnings",
	Long: `homework runs the homework scheduling API and talks to it from the terminal.

Teachers create assignments with an assigned and due date; saving one that
collides with other assignments due the same day returns an advisory warning.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		stdout = cmd.OutOrStdout()
		stderr = cmd.ErrOrStderr()
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Homework API base URL (defaults to HOMEWORK_SERVER_URL)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "server",
		Title: "Server & Storage:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "homeworks",
		Title: "Homeworks:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the homework CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	serveCmd.GroupID = "server"
	migrateCmd.GroupID = "server"
	seedCmd.GroupID = "server"
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	listCmd.GroupID = "homeworks"
	checkCmd.GroupID = "homeworks"
	calendarCmd.GroupID = "homeworks"
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(calendarCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
