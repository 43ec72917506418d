package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage learning path topics",
}

var topicCompleteCmd = &cobra.Command{
	Use:   "complete <topic>",
	Short: "Mark a topic completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		studentID, _ := cmd.Flags().GetString("student")
		topic := strings.Join(args, " ")
		changed, err := rt.coach.CompleteTopic(cmd.Context(), studentID, topic)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q complete.\n", topic)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%q was already complete.\n", topic)
		}
		return nil
	},
}

func init() {
	topicCompleteCmd.Flags().StringP("student", "s", "", "Student id")
	_ = topicCompleteCmd.MarkFlagRequired("student")

	topicCmd.AddCommand(topicCompleteCmd)
}
