package agents

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/learncoach/internal/domain"
)

const pathSystemPrompt = `You are an expert educational path designer. Generate a personalized learning path for a student.

Create a learning path with:
- 3-5 relevant topics based on the student's current topic
- a clear description for each topic
- a realistic time estimate for each topic
- an appropriate current stage description
- progress starting at 0.0`

const progressSystemPrompt = `You are an expert educational progress analyzer. Analyze a student's progress and provide insights.

Provide:
- a realistic average score (0-100) based on the available data
- the topics the student has completed
- the areas where the student needs improvement
- concrete next steps for the student`

const scheduleSystemPrompt = `You are an expert educational coach. Generate a weekly study schedule for a student.

Rules:
1. Times must be in HH:MM format.
2. Durations must be in hours, e.g. "2 hours".
3. Days must be one of Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday.
4. The schedule must fit within the student's available time.
5. Distribute the topics evenly across the available days.`

const adaptiveSystemPrompt = `You are an expert educational coach. Generate adaptive learning recommendations for a student.

Rules:
1. Adjustments must be specific and actionable.
2. Next topics must be relevant to the student's current progress.
3. The strategy must be clear and concise.
4. Base every recommendation on the student's progress data.`

const sessionSystemPrompt = `You are an AI learning coach analyzing one of a student's study sessions.

Evaluate the session against:
1. the student's learning path and its topics
2. their current progress
3. their schedule preferences and study habits
4. how effective and well aligned the session was

Reply with a single JSON object with these sections:
- topic_alignment: matches_learning_path (bool), relevant_topics_covered (list), progress_on_current_stage (text), alignment_score (0-100)
- schedule_analysis: follows_preferred_schedule (bool), optimal_time_slot (bool), duration_appropriateness ("too_short", "optimal" or "too_long"), consistency_with_habits (text)
- learning_effectiveness: productivity_assessment (text), mood_impact (text), comprehension_indicators (list), effectiveness_score (0-100)
- progress_update: topics_to_mark_completed (list of learning path topic names), new_concepts_learned (list), skill_improvements (list), areas_needing_review (list)
- recommendations: immediate_next_steps, schedule_adjustments, study_method_suggestions, focus_areas_next_session (all lists)
- insights: patterns_observed, strengths_demonstrated, challenges_identified, motivation_indicators (all lists)

Be specific, actionable and encouraging.`

func buildPathUserMessage(p domain.StudentProfile) string {
	var b strings.Builder
	b.WriteString("Student Information:\n")
	b.WriteString(fmt.Sprintf("Student ID: %s\n", p.StudentID))
	b.WriteString(fmt.Sprintf("Current Topic: %s\n", p.Topic()))
	if p.ExperienceLevel != "" {
		b.WriteString(fmt.Sprintf("Experience Level: %s\n", p.ExperienceLevel))
	}
	if len(p.Goals) > 0 {
		b.WriteString(fmt.Sprintf("Goals: %s\n", strings.Join(p.Goals, "; ")))
	}
	if p.AvailableTime != "" {
		b.WriteString(fmt.Sprintf("Available Time: %s\n", p.AvailableTime))
	}
	b.WriteString(fmt.Sprintf("Learning Preferences: %s\n", compactJSON(p.Learning)))
	b.WriteString("\nGenerate a personalized learning path for this student.")
	return b.String()
}

func buildProgressUserMessage(p domain.StudentProfile, path *domain.LearningPath) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Student Data: %s\n", compactJSON(p)))
	b.WriteString(fmt.Sprintf("Learning Path: %s\n", pathOrNone(path)))
	b.WriteString("\nAnalyze this student's progress and provide insights.")
	return b.String()
}

func buildScheduleUserMessage(p domain.StudentProfile, path *domain.LearningPath) string {
	var b strings.Builder
	b.WriteString("Generate a study schedule for this student.\n")
	b.WriteString(fmt.Sprintf("Learning Path: %s\n", pathOrNone(path)))
	b.WriteString(fmt.Sprintf("Available Time: %s\n", compactJSON(p.Schedule)))
	if p.AvailableTime != "" {
		b.WriteString(fmt.Sprintf("Stated Availability: %s\n", p.AvailableTime))
	}
	return b.String()
}

func buildAdaptiveUserMessage(in AdaptiveInput) string {
	settings := map[string]any{
		"learning_preferences": in.Profile.Learning,
		"success_threshold":    in.Profile.Threshold(),
		"experience_level":     in.Profile.ExperienceLevel,
		"current_topic":        in.Profile.Topic(),
	}
	var b strings.Builder
	b.WriteString("Generate adaptive recommendations for this student.\n")
	b.WriteString(fmt.Sprintf("Progress Data: %s\n", compactJSON(in.Summary)))
	b.WriteString(fmt.Sprintf("Learning Path: %s\n", pathOrNone(in.Path)))
	b.WriteString(fmt.Sprintf("Current Settings: %s\n", compactJSON(settings)))
	return b.String()
}

func buildSessionUserMessage(s domain.StudySession, path *domain.LearningPath, progress domain.Progress, prefs domain.SchedulePreferences) string {
	var b strings.Builder
	b.WriteString("Please analyze this study session.\n\n")
	b.WriteString("Study Session Details:\n")
	b.WriteString(fmt.Sprintf("- Topic studied: %s\n", s.Topic))
	b.WriteString(fmt.Sprintf("- Duration: %d minutes\n", s.DurationMinutes))
	b.WriteString(fmt.Sprintf("- Mood rating: %d/5\n", s.MoodRating))
	b.WriteString(fmt.Sprintf("- Productivity rating: %d/5\n", s.ProductivityRating))
	b.WriteString(fmt.Sprintf("- Date: %s\n", s.SessionDate.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("- Notes: %s\n\n", s.Notes))

	b.WriteString("Current Learning Path:\n")
	if path != nil {
		b.WriteString(indentJSON(path))
	} else {
		b.WriteString("No active learning path")
	}
	b.WriteString("\n\nCurrent Progress:\n")
	b.WriteString(indentJSON(progress))
	b.WriteString("\n\nSchedule Preferences:\n")
	b.WriteString(indentJSON(prefs))
	b.WriteString("\n\nReply with the JSON object described in the system prompt.")
	return b.String()
}

func pathOrNone(p *domain.LearningPath) string {
	if p == nil {
		return "none"
	}
	return compactJSON(p)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
