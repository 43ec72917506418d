package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/app"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the terminal progress dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("student")
		return runDashboard(cmd, id)
	},
}

// runDashboard opens the TUI, directly on studentID when it is set.
func runDashboard(cmd *cobra.Command, studentID string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(cmd.Context(), app.Options{
		Load:      rt.coach.Snapshot,
		StudentID: studentID,
	})
}

func init() {
	dashboardCmd.Flags().StringP("student", "s", "", "Student id to open")
}
