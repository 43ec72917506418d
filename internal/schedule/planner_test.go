package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learncoach/internal/domain"
)

func TestPlan_Defaults(t *testing.T) {
	s := Plan(domain.StudentProfile{StudentID: "s1", CurrentTopic: "Go"})

	assert.Equal(t, 10, s.TotalWeeklyHours)
	assert.Equal(t, domain.BreakPreferences{Frequency: "Every hour", Duration: "10 minutes"}, s.BreakPreferences)
	assert.Empty(t, s.WeeklySessions, "no time preference means no blocks")
	assert.Empty(t, s.StudySessions)
	assert.NotNil(t, s.CustomHabits)
	assert.NotNil(t, s.UnavailableTimes)
}

func TestPlan_MorningAndAfternoon(t *testing.T) {
	p := domain.StudentProfile{
		CurrentTopic: "Python",
		Schedule: domain.SchedulePreferences{
			AvailableDays:   []string{"Tuesday"},
			TimePreferences: domain.TimePreferences{Morning: true, Afternoon: true},
			BreakDuration:   "15 minutes",
		},
	}
	s := Plan(p)

	require.Len(t, s.WeeklySessions, 3)
	assert.Equal(t, domain.ScheduledBlock{Day: "Tuesday", Time: "9:00-11:00", Activity: "Python - Morning Session", Kind: domain.BlockStudy}, s.WeeklySessions[0])
	assert.Equal(t, domain.ScheduledBlock{Day: "Tuesday", Time: "11:00-11:15", Activity: "Break (15 minutes)", Kind: domain.BlockBreak}, s.WeeklySessions[1])
	assert.Equal(t, domain.ScheduledBlock{Day: "Tuesday", Time: "14:00-16:00", Activity: "Python - Practice Session", Kind: domain.BlockStudy}, s.WeeklySessions[2])
}

func TestPlan_DefaultDaysWithMorning(t *testing.T) {
	s := Plan(domain.StudentProfile{
		Schedule: domain.SchedulePreferences{TimePreferences: domain.TimePreferences{Morning: true}},
	})
	require.Len(t, s.WeeklySessions, 6)
	assert.Equal(t, "Monday", s.WeeklySessions[0].Day)
	assert.Equal(t, "Wednesday", s.WeeklySessions[2].Day)
	assert.Equal(t, "Friday", s.WeeklySessions[4].Day)
	assert.Equal(t, "Study - Morning Session", s.WeeklySessions[0].Activity)
}

func TestPlan_SessionKinds(t *testing.T) {
	tests := []struct {
		name     string
		styles   []string
		duration float64
		want     []domain.SessionKind
	}{
		{
			name:     "hands-on only",
			styles:   []string{StyleHandsOn},
			duration: 2,
			want:     []domain.SessionKind{{Session: "Practical Coding", Duration: "2 hours", Focus: "Hands-on exercises and projects"}},
		},
		{
			name:     "both",
			styles:   []string{StyleVideo, StyleHandsOn},
			duration: 3,
			want: []domain.SessionKind{
				{Session: "Practical Coding", Duration: "3 hours", Focus: "Hands-on exercises and projects"},
				{Session: "Video Learning", Duration: "2.5 hours", Focus: "Video tutorials and guided learning"},
			},
		},
		{
			name:     "video with default duration",
			styles:   []string{StyleVideo},
			duration: 0,
			want:     []domain.SessionKind{{Session: "Video Learning", Duration: "1.5 hours", Focus: "Video tutorials and guided learning"}},
		},
		{
			name:   "other styles",
			styles: []string{"Reading"},
			want:   []domain.SessionKind{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Plan(domain.StudentProfile{
				Learning: domain.LearningPreferences{LearningStyle: tt.styles},
				Schedule: domain.SchedulePreferences{StudyDuration: tt.duration},
			})
			assert.Equal(t, tt.want, s.StudySessions)
		})
	}
}

func TestPlan_HabitsAndUnavailable(t *testing.T) {
	s := Plan(domain.StudentProfile{Schedule: domain.SchedulePreferences{
		CustomHabits:     "Review notes before bed\n\n  Pomodoro  \n",
		UnavailableTimes: "Tuesday evenings\n",
	}})

	require.Len(t, s.CustomHabits, 2)
	assert.Equal(t, domain.Habit{Habit: "Review notes before bed", Time: "As specified", Frequency: "As needed"}, s.CustomHabits[0])
	assert.Equal(t, "Pomodoro", s.CustomHabits[1].Habit)
	assert.Equal(t, []string{"Tuesday evenings"}, s.UnavailableTimes)
}

func TestTimeSlots(t *testing.T) {
	s := Plan(domain.StudentProfile{
		CurrentTopic: "Rust",
		Schedule: domain.SchedulePreferences{
			AvailableDays:   []string{"Monday", "Thursday"},
			TimePreferences: domain.TimePreferences{Morning: true, Afternoon: true},
		},
	})
	slots := TimeSlots(s)

	require.Len(t, slots, 2)
	assert.Equal(t, []domain.TimeSlot{
		{Time: "09:00", Topic: "Rust", Duration: "2 hours"},
		{Time: "14:00", Topic: "Rust", Duration: "2 hours"},
	}, slots["Monday"])
	assert.Len(t, slots["Thursday"], 2)
}

func TestHours(t *testing.T) {
	assert.Equal(t, "1 hour", Hours(1))
	assert.Equal(t, "0.25 hours", Hours(0.25))
	assert.Equal(t, "10 hours", Hours(10))
}
