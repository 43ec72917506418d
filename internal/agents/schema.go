package agents

import (
	"sort"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
)

func stringList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func weekdayEnum() []any {
	days := make([]any, len(domain.Weekdays))
	for i, d := range domain.Weekdays {
		days[i] = d
	}
	return days
}

// LearningPathSchema defines the JSON schema for learning path generation.
var LearningPathSchema = &llm.Schema{
	Name:        "learning-path",
	Description: "A personalized learning path of 3-5 topics",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":        "array",
				"description": "3-5 topics in study order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":           map[string]any{"type": "string", "description": "Name of the topic"},
						"description":    map[string]any{"type": "string", "description": "What will be learned"},
						"estimated_time": map[string]any{"type": "string", "description": "Realistic time to complete, e.g. \"3 hours\""},
					},
					"required":             []any{"name", "description", "estimated_time"},
					"additionalProperties": false,
				},
			},
			"current_stage": map[string]any{"type": "string", "description": "Where the student is on the path"},
			"progress":      map[string]any{"type": "number", "description": "Overall progress from 0.0 to 1.0"},
		},
		"required":             []any{"topics", "current_stage", "progress"},
		"additionalProperties": false,
	},
}

// ProgressSummarySchema defines the JSON schema for progress analysis.
var ProgressSummarySchema = &llm.Schema{
	Name:        "progress-summary",
	Description: "A summary of a student's progress",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"average_score":     map[string]any{"type": "number", "description": "Average score across all topics (0-100)"},
			"completed_topics":  stringList("Topics the student has completed"),
			"improvement_areas": stringList("Areas that need improvement"),
			"next_steps":        stringList("Concrete next steps"),
		},
		"required":             []any{"average_score", "completed_topics", "improvement_areas", "next_steps"},
		"additionalProperties": false,
	},
}

// WeeklyScheduleSchema defines the JSON schema for schedule generation.
var WeeklyScheduleSchema = &llm.Schema{
	Name:        "weekly-schedule",
	Description: "A weekly study schedule organized by day",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"days": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"day": map[string]any{"type": "string", "enum": weekdayEnum()},
						"slots": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"time":     map[string]any{"type": "string", "description": "Start time in HH:MM"},
									"topic":    map[string]any{"type": "string", "description": "Topic studied in this slot"},
									"duration": map[string]any{"type": "string", "description": "Duration in hours, e.g. \"2 hours\""},
								},
								"required":             []any{"time", "topic", "duration"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"day", "slots"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"days"},
		"additionalProperties": false,
	},
}

// AdaptiveSchema defines the JSON schema for adaptive recommendations.
var AdaptiveSchema = &llm.Schema{
	Name:        "adaptive-recommendations",
	Description: "Adaptive learning recommendations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"adjustments": stringList("Specific, actionable adjustments to the learning path"),
			"next_topics": stringList("Topics to focus on next"),
			"strategy":    map[string]any{"type": "string", "description": "Recommended learning strategy"},
		},
		"required":             []any{"adjustments", "next_topics", "strategy"},
		"additionalProperties": false,
	},
}

func section(props map[string]any) map[string]any {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	required := make([]any, len(keys))
	for i, k := range keys {
		required[i] = k
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func score(desc string) map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "maximum": 100, "description": desc}
}

// SessionAnalysisSchema describes the six-section session analysis. It is
// sent as guidance only: replies are decoded leniently.
var SessionAnalysisSchema = &llm.Schema{
	Name:        "session-analysis",
	Description: "Analysis of one study session",
	Loose:       true,
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic_alignment": section(map[string]any{
				"matches_learning_path":     map[string]any{"type": "boolean"},
				"relevant_topics_covered":   stringList("Path topics the session covered"),
				"progress_on_current_stage": map[string]any{"type": "string"},
				"alignment_score":           score("How well the session fits the path"),
			}),
			"schedule_analysis": section(map[string]any{
				"follows_preferred_schedule": map[string]any{"type": "boolean"},
				"optimal_time_slot":          map[string]any{"type": "boolean"},
				"duration_appropriateness":   map[string]any{"type": "string", "enum": []any{domain.DurationTooShort, domain.DurationOptimal, domain.DurationTooLong}},
				"consistency_with_habits":    map[string]any{"type": "string"},
			}),
			"learning_effectiveness": section(map[string]any{
				"productivity_assessment":  map[string]any{"type": "string"},
				"mood_impact":              map[string]any{"type": "string"},
				"comprehension_indicators": stringList("Signs of understanding"),
				"effectiveness_score":      score("How effective the session was"),
			}),
			"progress_update": section(map[string]any{
				"topics_to_mark_completed": stringList("Path topics now complete"),
				"new_concepts_learned":     stringList("Concepts learned"),
				"skill_improvements":       stringList("Skills improved"),
				"areas_needing_review":     stringList("Areas to revisit"),
			}),
			"recommendations": section(map[string]any{
				"immediate_next_steps":     stringList(""),
				"schedule_adjustments":     stringList(""),
				"study_method_suggestions": stringList(""),
				"focus_areas_next_session": stringList(""),
			}),
			"insights": section(map[string]any{
				"patterns_observed":      stringList(""),
				"strengths_demonstrated": stringList(""),
				"challenges_identified":  stringList(""),
				"motivation_indicators":  stringList(""),
			}),
		},
		"required": []any{"topic_alignment", "schedule_analysis", "learning_effectiveness", "progress_update", "recommendations", "insights"},
	},
}
