package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/domain"
)

var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Record assessments",
}

var assessmentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a scored quiz, project, exercise or test",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		f := cmd.Flags()
		studentID, _ := f.GetString("student")
		a := domain.Assessment{Date: time.Now()}
		a.Topic, _ = f.GetString("topic")
		a.Type, _ = f.GetString("type")
		a.Name, _ = f.GetString("name")
		a.MaxScore, _ = f.GetFloat64("max")
		a.AchievedScore, _ = f.GetFloat64("score")
		a.TimeTakenMinutes, _ = f.GetInt("minutes")
		a.Attempts, _ = f.GetInt("attempts")
		a.Feedback, _ = f.GetString("feedback")

		saved, err := rt.coach.RecordAssessment(cmd.Context(), studentID, a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %q: %.1f%%\n", saved.Type, saved.Name, saved.Percentage)
		return nil
	},
}

func init() {
	f := assessmentAddCmd.Flags()
	f.StringP("student", "s", "", "Student id")
	f.StringP("topic", "t", "", "Topic assessed")
	f.String("type", "quiz", "Assessment type: quiz, project, exercise or test")
	f.String("name", "", "Assessment name")
	f.Float64("max", 100, "Maximum score")
	f.Float64("score", 0, "Achieved score")
	f.Int("minutes", 0, "Time taken in minutes")
	f.Int("attempts", 1, "Number of attempts")
	f.String("feedback", "", "Feedback")
	_ = assessmentAddCmd.MarkFlagRequired("student")
	_ = assessmentAddCmd.MarkFlagRequired("name")

	assessmentCmd.AddCommand(assessmentAddCmd)
}
