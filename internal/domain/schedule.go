package domain

import "time"

// Block kinds in a weekly plan.
const (
	BlockStudy = "study_session"
	BlockBreak = "break"
)

// Weekdays in calendar order, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ScheduledBlock is one entry in a weekly plan.
type ScheduledBlock struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Kind     string `json:"type"`
}

// SessionKind describes a type of study session suited to the student.
type SessionKind struct {
	Session  string `json:"session"`
	Duration string `json:"duration"`
	Focus    string `json:"focus"`
}

// Habit is a free-form study habit the student described.
type Habit struct {
	Habit     string `json:"habit"`
	Time      string `json:"time"`
	Frequency string `json:"frequency"`
}

// BreakPreferences says how often and how long the student rests.
type BreakPreferences struct {
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// TimeSlot is one slot in a day of the model-generated schedule.
type TimeSlot struct {
	Time     string `json:"time"`
	Topic    string `json:"topic"`
	Duration string `json:"duration"`
}

// Schedule is the weekly study plan. WeeklySessions comes from the
// deterministic planner, WeeklySchedule from the schedule agent.
type Schedule struct {
	WeeklySessions   []ScheduledBlock      `json:"weekly_sessions"`
	StudySessions    []SessionKind         `json:"study_sessions"`
	CustomHabits     []Habit               `json:"custom_habits"`
	TotalWeeklyHours int                   `json:"total_weekly_hours"`
	BreakPreferences BreakPreferences      `json:"break_preferences"`
	UnavailableTimes []string              `json:"unavailable_times"`
	WeeklySchedule   map[string][]TimeSlot `json:"weekly_schedule,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// Days returns the days present in WeeklySchedule in calendar order.
func (s Schedule) Days() []string {
	var days []string
	for _, d := range Weekdays {
		if len(s.WeeklySchedule[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

// StoredSchedule is a persisted schedule.
type StoredSchedule struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	Schedule      Schedule  `json:"schedule_data"`
	WeekStartDate time.Time `json:"week_start_date"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeekStart returns midnight UTC of the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
