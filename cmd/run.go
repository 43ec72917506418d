package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/pipeline"
	"github.com/abhisek/learncoach/internal/store"
	"github.com/abhisek/learncoach/internal/ui/theme"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the coaching pipeline once and print the results",
	Long: "Runs the learning path, progress, schedule and adaptive stages for one student.\n" +
		"Without --student the sample student is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		profile, err := runProfile(cmd, rt)
		if err != nil {
			return err
		}
		state := rt.pipeline.Run(cmd.Context(), profile)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		}
		printState(cmd.OutOrStdout(), state)
		return nil
	},
}

// sampleProfile is the student used when none is named.
func sampleProfile() domain.StudentProfile {
	return domain.StudentProfile{
		StudentID:       "student123",
		Name:            "student123",
		CurrentTopic:    "Python",
		ExperienceLevel: "beginner",
		Goals:           []string{"Learn programming basics", "Build projects"},
		AvailableTime:   "10 hours per week",
	}
}

// runProfile loads the named student, or starts from the sample, then
// applies the intake flags.
func runProfile(cmd *cobra.Command, rt *coachRuntime) (domain.StudentProfile, error) {
	profile := sampleProfile()
	if id, _ := cmd.Flags().GetString("student"); id != "" {
		found, err := rt.coach.FindStudent(cmd.Context(), id)
		switch {
		case err == nil:
			profile = *found
		case errors.Is(err, store.ErrNotFound):
			profile = domain.StudentProfile{StudentID: id, Name: id}
		default:
			return profile, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		profile.Name, _ = flags.GetString("name")
	}
	if flags.Changed("topic") {
		profile.CurrentTopic, _ = flags.GetString("topic")
	}
	if flags.Changed("level") {
		profile.ExperienceLevel, _ = flags.GetString("level")
	}
	if flags.Changed("goal") {
		profile.Goals, _ = flags.GetStringArray("goal")
	}
	if flags.Changed("time") {
		profile.AvailableTime, _ = flags.GetString("time")
	}
	if profile.Success.SuccessThreshold == 0 {
		profile.Success.SuccessThreshold = rt.cfg.Coach.SuccessThreshold
	}
	return profile, nil
}

func printState(w io.Writer, st *pipeline.State) {
	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Coaching run for %s", st.Student.StudentID)))
	fmt.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%s · %s", st.Student.Topic(), orDash(st.Student.ExperienceLevel))))

	section(w, "Learning Path")
	if len(st.LearningPath.Topics) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  no topics"))
	}
	for i, t := range st.LearningPath.Topics {
		line := fmt.Sprintf("  %d. %s", i+1, t.Name)
		if t.EstimatedTime != "" {
			line += theme.Hint.Render(" (" + t.EstimatedTime + ")")
		}
		fmt.Fprintln(w, line)
	}

	section(w, "Progress")
	ps := st.ProgressSummary
	fmt.Fprintf(w, "  Average score: %.1f%%\n", ps.AverageScore)
	if ps.TotalStudyTimeHours > 0 {
		fmt.Fprintf(w, "  Study time:    %.1f h\n", ps.TotalStudyTimeHours)
	}
	if t := ps.SuccessThreshold; t != nil {
		status := theme.Warning.Render("below target")
		if t.MeetingThreshold {
			status = theme.Done.Render("on target")
		}
		fmt.Fprintf(w, "  Target:        %.0f%% (%s)\n", t.StudentSetting, status)
	}
	bullets(w, "Completed", ps.CompletedTopics)
	bullets(w, "Improve", ps.ImprovementAreas)
	bullets(w, "Next steps", ps.NextSteps)

	section(w, "Weekly Schedule")
	if len(st.Schedule.WeeklySessions) == 0 {
		fmt.Fprintln(w, theme.Hint.Render("  nothing scheduled"))
	}
	for _, b := range st.Schedule.WeeklySessions {
		if b.Kind != domain.BlockStudy {
			continue
		}
		fmt.Fprintf(w, "  %-9s %-12s %s\n", b.Day, b.Time, b.Activity)
	}

	section(w, "Recommendations")
	aa := st.AdaptiveAnalysis
	bullets(w, "Do", aa.Recommendations)
	bullets(w, "Difficulty", aa.DifficultyAdjustments)
	bullets(w, "Focus", aa.FocusAreas)
	if aa.Agent.Strategy != "" {
		fmt.Fprintf(w, "  Strategy: %s\n", aa.Agent.Strategy)
	}

	var failed []string
	for _, s := range st.Stages {
		if s.Error != "" {
			failed = append(failed, fmt.Sprintf("%s: %s", s.Name, s.Error))
		}
	}
	if len(failed) > 0 {
		section(w, "Stage Errors")
		for _, f := range failed {
			fmt.Fprintln(w, theme.Warning.Render("  "+f))
		}
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Section.Render(title))
}

func bullets(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, it := range items {
		fmt.Fprintf(w, "    • %s\n", it)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func init() {
	runCmd.Flags().StringP("student", "s", "", "Student id (default: the sample student)")
	runCmd.Flags().String("name", "", "Student name")
	runCmd.Flags().StringP("topic", "t", "", "Current topic")
	runCmd.Flags().String("level", "", "Experience level (beginner, intermediate, advanced)")
	runCmd.Flags().StringArray("goal", nil, "Learning goal (repeatable)")
	runCmd.Flags().String("time", "", "Available time, e.g. \"10 hours per week\"")
	runCmd.Flags().Bool("json", false, "Print the pipeline state as JSON")
}
