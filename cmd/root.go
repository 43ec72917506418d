package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "AI learning coach",
	Long:  "coach builds learning paths, weekly schedules and progress reviews for self-directed students.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default .env)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres (overrides COACH_DB_DRIVER)")
	rootCmd.PersistentFlags().String("db", "", "SQLite file or Postgres URL (overrides COACH_DB_DSN)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(assessmentCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
