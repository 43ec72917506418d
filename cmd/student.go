package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		p := studentFromFlags(cmd)
		if p.Success.SuccessThreshold == 0 {
			p.Success.SuccessThreshold = rt.cfg.Coach.SuccessThreshold
		}
		if err := rt.coach.SaveStudent(cmd.Context(), p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", p.Name, p.StudentID)

		if plan, _ := cmd.Flags().GetBool("plan"); plan {
			printState(cmd.OutOrStdout(), rt.pipeline.Run(cmd.Context(), p))
		}
		return nil
	},
}

func studentFromFlags(cmd *cobra.Command) domain.StudentProfile {
	f := cmd.Flags()
	str := func(name string) string {
		v, _ := f.GetString(name)
		return strings.TrimSpace(v)
	}
	arr := func(name string) []string {
		v, _ := f.GetStringArray(name)
		return v
	}

	name := str("name")
	id := str("id")
	if id == "" {
		id = coach.StudentIDFor(name)
	}
	hours, _ := f.GetInt("weekly-hours")
	duration, _ := f.GetFloat64("study-duration")
	threshold, _ := f.GetFloat64("threshold")
	slots := arr("slot")

	return domain.StudentProfile{
		StudentID:       id,
		Name:            name,
		Email:           str("email"),
		ExperienceLevel: str("level"),
		CurrentTopic:    str("topic"),
		Goals:           arr("goal"),
		AvailableTime:   str("time"),
		Learning: domain.LearningPreferences{
			LearningStyle:        arr("style"),
			DifficultyPreference: str("difficulty"),
		},
		Schedule: domain.SchedulePreferences{
			AvailableDays: arr("day"),
			TimePreferences: domain.TimePreferences{
				Morning:   contains(slots, "morning"),
				Afternoon: contains(slots, "afternoon"),
				Evening:   contains(slots, "evening"),
			},
			StudyDuration: duration,
			WeeklyHours:   hours,
		},
		Success: domain.SuccessCriteria{SuccessThreshold: threshold},
	}
}

var studentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a student's profile and progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		snap, err := rt.coach.Snapshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		printSnapshot(cmd.OutOrStdout(), snap)
		return nil
	},
}

func printSnapshot(w io.Writer, snap *coach.Snapshot) {
	p := snap.Profile
	r := snap.Report
	fmt.Fprintln(w, theme.Title.Render(p.Name))
	fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%s · %s · %s", p.StudentID, p.Topic(), orDash(p.ExperienceLevel))))

	section(w, "Progress")
	fmt.Fprintf(w, "  Topics:        %d/%d (%.0f%%)\n", r.CompletedCount, r.TotalTopics, r.ProgressPercent)
	fmt.Fprintf(w, "  Sessions:      %d (%.1f h)\n", r.SessionCount, r.TotalStudyHours)
	fmt.Fprintf(w, "  Effectiveness: %.0f last, %.1f average\n", r.LastEffectivenessScore, r.AverageEffectiveness)
	fmt.Fprintf(w, "  Assessments:   %d, average %.1f%% (target %.0f%%)\n", r.AssessmentCount, r.AverageScore, p.Threshold())
	if r.LastStudyDate != nil {
		fmt.Fprintf(w, "  Last studied:  %s\n", r.LastStudyDate.Local().Format("2006-01-02"))
	}
	bullets(w, "Completed", r.CompletedTopics)
	bullets(w, "Review", r.AreasNeedingReview)

	section(w, "Learning Path")
	if snap.Path == nil || len(snap.Path.Topics) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  no active path, try: coach run --student "+p.StudentID))
	} else {
		done := map[string]bool{}
		for _, t := range r.CompletedTopics {
			done[strings.ToLower(t)] = true
		}
		for i, t := range snap.Path.Topics {
			mark := "○"
			if done[strings.ToLower(t.Name)] {
				mark = theme.Done.Render("✓")
			}
			fmt.Fprintf(w, "  %s %d. %s\n", mark, i+1, t.Name)
		}
	}

	if len(snap.Insights) > 0 {
		section(w, "Insights")
		for _, in := range snap.Insights {
			fmt.Fprintf(w, "  %s  %s\n", in.CreatedAt.Local().Format("2006-01-02"), in.Type)
		}
	}
}

var studentFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find students by name (case-insensitive)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		name := strings.Join(args, " ")
		students, err := rt.coach.FindStudentsByName(cmd.Context(), name)
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No students named %q.\n", name)
			return nil
		}
		printStudents(cmd.OutOrStdout(), students)
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		students, err := rt.coach.ListStudents(cmd.Context())
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No students yet.")
			return nil
		}
		printStudents(cmd.OutOrStdout(), students)
		return nil
	},
}

func printStudents(w io.Writer, students []domain.Student) {
	fmt.Fprintf(w, "%-28s  %-20s  %-14s  %-20s  %s\n", "ID", "Name", "Level", "Topic", "Updated")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, s := range students {
		fmt.Fprintf(w, "%-28s  %-20s  %-14s  %-20s  %s\n",
			truncate(s.ID, 28),
			truncate(s.Name, 20),
			orDash(s.ExperienceLevel),
			truncate(s.CurrentTopic, 20),
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if strings.EqualFold(strings.TrimSpace(it), want) {
			return true
		}
	}
	return false
}

func init() {
	f := studentAddCmd.Flags()
	f.String("name", "", "Student name")
	f.String("id", "", "Student id (default derived from the name)")
	f.String("email", "", "Email address")
	f.String("level", "beginner", "Experience level (beginner, intermediate, advanced)")
	f.StringP("topic", "t", "", "Current topic")
	f.StringArray("goal", nil, "Learning goal (repeatable)")
	f.String("time", "", "Available time, e.g. \"10 hours per week\"")
	f.StringArray("style", nil, "Learning style (repeatable)")
	f.String("difficulty", "", "Preferred difficulty")
	f.StringArray("day", nil, "Available day (repeatable)")
	f.StringArray("slot", nil, "Preferred time of day: morning, afternoon or evening (repeatable)")
	f.Float64("study-duration", 0, "Hours per study session")
	f.Int("weekly-hours", 0, "Target study hours per week")
	f.Float64("threshold", 0, "Success threshold in percent (default coach.success_threshold)")
	f.Bool("plan", false, "Run the coaching pipeline after saving")
	_ = studentAddCmd.MarkFlagRequired("name")

	studentShowCmd.Flags().Bool("json", false, "Print as JSON")

	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentShowCmd)
	studentCmd.AddCommand(studentFindCmd)
	studentCmd.AddCommand(studentListCmd)
}
