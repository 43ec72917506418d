package cmd

import (
	"bytes"
	goruntime "runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/pipeline"
)

func TestSampleProfile(t *testing.T) {
	p := sampleProfile()
	assert.Equal(t, "student123", p.StudentID)
	assert.Equal(t, "Python", p.Topic())
	assert.Equal(t, []string{"Learn programming basics", "Build projects"}, p.Goals)
	assert.Equal(t, "10 hours per week", p.AvailableTime)
}

func TestStudentFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	cmd.Flags().AddFlagSet(studentAddCmd.Flags())
	require.NoError(t, cmd.Flags().Parse([]string{
		"--name", "Ada Lovelace",
		"--topic", "Go",
		"--goal", "ship a CLI",
		"--style", "visual",
		"--day", "Monday",
		"--slot", "Evening",
		"--weekly-hours", "6",
	}))

	p := studentFromFlags(cmd)
	assert.Equal(t, "student_ada_lovelace", p.StudentID)
	assert.Equal(t, "Go", p.CurrentTopic)
	assert.Equal(t, []string{"ship a CLI"}, p.Goals)
	assert.True(t, p.Learning.HasStyle("visual"))
	assert.Equal(t, []string{"Monday"}, p.Schedule.AvailableDays)
	assert.True(t, p.Schedule.TimePreferences.Evening)
	assert.False(t, p.Schedule.TimePreferences.Morning)
	assert.Equal(t, 6, p.Schedule.WeeklyHours)
}

func TestPrintState(t *testing.T) {
	st := &pipeline.State{
		Student: sampleProfile(),
		LearningPath: domain.LearningPath{Topics: []domain.Topic{
			{Name: "Python Fundamentals", EstimatedTime: "1 week"},
			{Name: "Control Flow"},
		}},
		ProgressSummary: domain.ProgressSummary{
			AverageScore: 82,
			NextSteps:    []string{"Start with Python Fundamentals"},
		},
		Schedule: domain.Schedule{WeeklySessions: []domain.ScheduledBlock{
			{Day: "Monday", Time: "18:00-19:00", Activity: "Study Python", Kind: domain.BlockStudy},
			{Day: "Monday", Time: "19:00-19:15", Activity: "Break", Kind: domain.BlockBreak},
		}},
		Stages: []pipeline.StageResult{{Name: "adaptive_analysis", Error: "model unavailable"}},
	}

	var buf bytes.Buffer
	printState(&buf, st)
	out := buf.String()

	assert.Contains(t, out, "1. Python Fundamentals")
	assert.Contains(t, out, "2. Control Flow")
	assert.Contains(t, out, "82.0%")
	assert.Contains(t, out, "Start with Python Fundamentals")
	assert.Contains(t, out, "Study Python")
	assert.NotContains(t, out, "Break")
	assert.Contains(t, out, "adaptive_analysis: model unavailable")
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0.0012, "$0.0012"},
		{0.5, "$0.50"},
		{12.5, "$12.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCost(tt.usd))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 8))
	assert.Equal(t, "abcd", truncate("abcdefgh", 4))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	assert.Contains(t, out, "learncoach (devel)")
	assert.Contains(t, out, goruntime.Version())
}
