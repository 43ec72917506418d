package agents

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/schedule"
)

// ScheduleAgent lays the path's topics out over the week.
type ScheduleAgent struct {
	caller
	cfg Settings
}

// NewScheduleAgent creates a ScheduleAgent.
func NewScheduleAgent(p llm.Provider, log *logger.Logger, cfg Settings) *ScheduleAgent {
	return &ScheduleAgent{caller: newCaller(p, log, "schedule"), cfg: cfg}
}

type scheduleOutput struct {
	Days []struct {
		Day   string            `json:"day"`
		Slots []domain.TimeSlot `json:"slots"`
	} `json:"days"`
}

// Generate returns time slots keyed by weekday. When the model fails or
// returns no usable day, the planner's blocks are converted instead.
func (a *ScheduleAgent) Generate(ctx context.Context, p domain.StudentProfile, path *domain.LearningPath) map[string][]domain.TimeSlot {
	req := llm.UserPrompt(scheduleSystemPrompt, buildScheduleUserMessage(p, path), WeeklyScheduleSchema, a.cfg.MaxTokens, a.cfg.Temperature)

	var out scheduleOutput
	if _, err := a.call(ctx, PurposeSchedule, req, &out); err != nil {
		a.fallback(PurposeSchedule, err)
		return schedule.TimeSlots(schedule.Plan(p))
	}

	slots := map[string][]domain.TimeSlot{}
	for _, d := range out.Days {
		day, ok := canonicalDay(d.Day)
		if !ok {
			continue
		}
		for _, s := range d.Slots {
			s.Time = strings.TrimSpace(s.Time)
			s.Topic = strings.TrimSpace(s.Topic)
			if s.Topic == "" {
				continue
			}
			slots[day] = append(slots[day], s)
		}
	}
	if len(slots) == 0 {
		a.fallback(PurposeSchedule, errors.New("schedule has no usable days"))
		return schedule.TimeSlots(schedule.Plan(p))
	}
	return slots
}

func canonicalDay(d string) (string, bool) {
	d = strings.TrimSpace(d)
	for _, w := range domain.Weekdays {
		if strings.EqualFold(d, w) {
			return w, true
		}
	}
	return "", false
}
