package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record study sessions",
}

var sessionLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a study session and analyze it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		f := cmd.Flags()
		studentID, _ := f.GetString("student")
		sess := domain.StudySession{}
		sess.Topic, _ = f.GetString("topic")
		sess.DurationMinutes, _ = f.GetInt("minutes")
		sess.Activities, _ = f.GetStringArray("activity")
		sess.Notes, _ = f.GetString("notes")
		sess.MoodRating, _ = f.GetInt("mood")
		sess.ProductivityRating, _ = f.GetInt("productivity")
		if d, _ := f.GetString("date"); d != "" {
			day, err := time.ParseInLocation("2006-01-02", d, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", d, err)
			}
			sess.SessionDate = day
		}

		res, err := rt.coach.RecordAnalyzedSession(cmd.Context(), studentID, sess)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, theme.Title.Render("Session recorded"))
		fmt.Fprintf(w, "  Effectiveness: %.0f/100\n", res.Decision.Effectiveness)
		switch {
		case res.Decision.MarkedComplete:
			fmt.Fprintln(w, theme.Done.Render(fmt.Sprintf("  Completed %q", res.Decision.MatchedTopic)))
		case res.Decision.AlreadyDone:
			fmt.Fprintf(w, "  %q was already complete\n", res.Decision.MatchedTopic)
		}
		a := res.Analysis.Analysis
		bullets(w, "Concepts", a.ProgressUpdate.NewConceptsLearned)
		bullets(w, "Review", a.ProgressUpdate.AreasNeedingReview)
		bullets(w, "Next steps", a.Recommendations.ImmediateNextSteps)
		return nil
	},
}

func init() {
	f := sessionLogCmd.Flags()
	f.StringP("student", "s", "", "Student id")
	f.StringP("topic", "t", "", "Topic studied")
	f.IntP("minutes", "m", 60, "Duration in minutes")
	f.StringArray("activity", nil, "Activity (repeatable)")
	f.String("notes", "", "Free-form notes")
	f.Int("mood", 0, "Mood rating 1-5 (default 3)")
	f.Int("productivity", 0, "Productivity rating 1-5 (default 3)")
	f.String("date", "", "Session date YYYY-MM-DD (default today)")
	_ = sessionLogCmd.MarkFlagRequired("student")
	_ = sessionLogCmd.MarkFlagRequired("topic")

	sessionCmd.AddCommand(sessionLogCmd)
}
