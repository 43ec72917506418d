package domain

import "time"

// Topic is one step of a learning path.
type Topic struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimated_time"`
}

// LearningPath is an ordered list of topics generated for a student.
// Progress is a fraction in [0, 1].
type LearningPath struct {
	ID           string    `json:"id,omitempty"`
	StudentID    string    `json:"student_id,omitempty"`
	Topic        string    `json:"topic,omitempty"`
	Topics       []Topic   `json:"topics"`
	CurrentStage string    `json:"current_stage"`
	Progress     float64   `json:"progress"`
	IsActive     bool      `json:"is_active,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// TopicNames returns the names of the path's topics in order.
func (p *LearningPath) TopicNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.Topics))
	for _, t := range p.Topics {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// DefaultTopics returns the three-topic starter path for a subject.
func DefaultTopics(subject string) []Topic {
	if subject == "" {
		subject = DefaultTopic
	}
	return []Topic{
		{Name: "Introduction to " + subject, Description: "Basic concepts and overview", EstimatedTime: "2 hours"},
		{Name: subject + " Fundamentals", Description: "Core principles and foundations", EstimatedTime: "3 hours"},
		{Name: "Practical " + subject, Description: "Hands-on exercises and practice", EstimatedTime: "4 hours"},
	}
}
