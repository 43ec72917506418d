// Package schedule builds the deterministic weekly plan from a student's
// schedule and learning preferences.
package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/learncoach/internal/domain"
)

// Defaults applied when the student leaves a preference unset.
var (
	DefaultDays           = []string{"Monday", "Wednesday", "Friday"}
	DefaultStudyDuration  = 2.0
	DefaultWeeklyHours    = 10
	DefaultBreakFrequency = "Every hour"
	DefaultBreakDuration  = "10 minutes"
)

// Learning styles that add a session kind to the plan.
const (
	StyleHandsOn = "Hands-on practice"
	StyleVideo   = "Video tutorials"
)

type window struct {
	start, end string
	label      string
	kind       string
}

var (
	morningStudy   = window{"9:00", "11:00", "Morning Session", domain.BlockStudy}
	morningBreak   = window{"11:00", "11:15", "", domain.BlockBreak}
	afternoonStudy = window{"14:00", "16:00", "Practice Session", domain.BlockStudy}
)

// Plan returns the weekly plan for the profile. It never fails: unset
// preferences fall back to the package defaults.
func Plan(p domain.StudentProfile) domain.Schedule {
	prefs := withDefaults(p.Schedule)
	topic := strings.TrimSpace(p.CurrentTopic)
	if topic == "" {
		topic = "Study"
	}

	s := domain.Schedule{
		WeeklySessions:   []domain.ScheduledBlock{},
		StudySessions:    []domain.SessionKind{},
		CustomHabits:     []domain.Habit{},
		TotalWeeklyHours: prefs.WeeklyHours,
		BreakPreferences: domain.BreakPreferences{
			Frequency: prefs.BreakFrequency,
			Duration:  prefs.BreakDuration,
		},
		UnavailableTimes: SplitLines(prefs.UnavailableTimes),
	}

	for _, day := range prefs.AvailableDays {
		if prefs.TimePreferences.Morning {
			s.WeeklySessions = append(s.WeeklySessions,
				block(day, morningStudy, topic+" - "+morningStudy.label),
				block(day, morningBreak, fmt.Sprintf("Break (%s)", prefs.BreakDuration)),
			)
		}
		if prefs.TimePreferences.Afternoon {
			s.WeeklySessions = append(s.WeeklySessions, block(day, afternoonStudy, topic+" - "+afternoonStudy.label))
		}
	}

	if p.Learning.HasStyle(StyleHandsOn) {
		s.StudySessions = append(s.StudySessions, domain.SessionKind{
			Session:  "Practical Coding",
			Duration: Hours(prefs.StudyDuration),
			Focus:    "Hands-on exercises and projects",
		})
	}
	if p.Learning.HasStyle(StyleVideo) {
		s.StudySessions = append(s.StudySessions, domain.SessionKind{
			Session:  "Video Learning",
			Duration: Hours(prefs.StudyDuration - 0.5),
			Focus:    "Video tutorials and guided learning",
		})
	}

	for _, h := range SplitLines(prefs.CustomHabits) {
		s.CustomHabits = append(s.CustomHabits, domain.Habit{
			Habit:     h,
			Time:      "As specified",
			Frequency: "As needed",
		})
	}
	return s
}

// TimeSlots converts the plan's study blocks into per-day slots, the shape
// the schedule agent produces.
func TimeSlots(s domain.Schedule) map[string][]domain.TimeSlot {
	out := map[string][]domain.TimeSlot{}
	for _, b := range s.WeeklySessions {
		if b.Kind != domain.BlockStudy {
			continue
		}
		start, dur := splitRange(b.Time)
		topic := b.Activity
		if i := strings.LastIndex(topic, " - "); i > 0 {
			topic = topic[:i]
		}
		out[b.Day] = append(out[b.Day], domain.TimeSlot{
			Time:     start,
			Topic:    topic,
			Duration: dur,
		})
	}
	return out
}

// Hours formats a duration in hours, e.g. 2 -> "2 hours", 1.5 -> "1.5 hours".
func Hours(h float64) string {
	if h == 1 {
		return "1 hour"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + " hours"
}

// SplitLines splits free text into trimmed, non-empty lines.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func withDefaults(p domain.SchedulePreferences) domain.SchedulePreferences {
	if len(p.AvailableDays) == 0 {
		p.AvailableDays = DefaultDays
	}
	if p.StudyDuration <= 0 {
		p.StudyDuration = DefaultStudyDuration
	}
	if p.WeeklyHours <= 0 {
		p.WeeklyHours = DefaultWeeklyHours
	}
	if p.BreakFrequency == "" {
		p.BreakFrequency = DefaultBreakFrequency
	}
	if p.BreakDuration == "" {
		p.BreakDuration = DefaultBreakDuration
	}
	return p
}

func block(day string, w window, activity string) domain.ScheduledBlock {
	return domain.ScheduledBlock{
		Day:      day,
		Time:     w.start + "-" + w.end,
		Activity: activity,
		Kind:     w.kind,
	}
}

// splitRange turns "9:00-11:00" into ("09:00", "2 hours").
func splitRange(r string) (string, string) {
	from, to, ok := strings.Cut(r, "-")
	if !ok {
		return r, ""
	}
	a, errA := minutes(from)
	b, errB := minutes(to)
	start := from
	if errA == nil {
		start = fmt.Sprintf("%02d:%02d", a/60, a%60)
	}
	if errA != nil || errB != nil || b <= a {
		return start, ""
	}
	return start, Hours(float64(b-a) / 60)
}

func minutes(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, fmt.Errorf("bad time %q", hhmm)
	}
	hi, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	mi, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	return hi*60 + mi, nil
}
