// Package progress merges study-session analyses into a student's
// persisted progress record.
package progress

import (
	"strings"
	"time"

	"github.com/abhisek/learncoach/internal/domain"
)

// DefaultCompletionThreshold is the effectiveness score at or above which
// a studied topic counts as completed.
const DefaultCompletionThreshold = 70.0

// Decision explains what Reconcile did with the studied topic.
type Decision struct {
	StudiedTopic   string
	MatchedTopic   string
	Effectiveness  float64
	MarkedComplete bool
	AlreadyDone    bool
}

// Reconcile folds one session analysis into the current progress record
// and returns the new record. It never removes a completed topic, and all
// three lists stay duplicate-free in first-seen order.
//
// The studied topic is matched against pathTopics (the active path's
// topic names) and marked completed when the effectiveness score reaches
// threshold.
func Reconcile(current domain.Progress, analysis domain.SessionAnalysis, pathTopics []string, threshold float64) (domain.Progress, Decision) {
	next := current
	update := analysis.ProgressUpdate

	next.CompletedTopics = union(current.CompletedTopics, update.TopicsToMarkCompleted)

	studied := ""
	var sessionDate time.Time
	if analysis.Session != nil {
		studied = strings.TrimSpace(analysis.Session.Topic)
		sessionDate = analysis.Session.SessionDate
	}

	d := Decision{
		StudiedTopic:  studied,
		MatchedTopic:  MatchTopic(studied, pathTopics),
		Effectiveness: analysis.EffectivenessScore(),
	}
	if d.MatchedTopic != "" && d.Effectiveness >= threshold {
		if contains(next.CompletedTopics, d.MatchedTopic) {
			d.AlreadyDone = true
		} else {
			next.CompletedTopics = append(next.CompletedTopics, d.MatchedTopic)
			d.MarkedComplete = true
		}
	}

	concepts := union(current.ConceptsLearned, update.NewConceptsLearned)
	if studied != "" {
		concepts = union(concepts, []string{studied})
	}
	next.ConceptsLearned = concepts
	next.AreasNeedingReview = union(current.AreasNeedingReview, update.AreasNeedingReview)

	next.LastEffectivenessScore = d.Effectiveness
	if !sessionDate.IsZero() {
		t := sessionDate
		next.LastStudyDate = &t
	}
	next.TotalStudySessions = current.TotalStudySessions + 1

	return next, d
}

// MatchTopic finds the path topic a studied topic refers to. It tries a
// case-insensitive exact match, then a case-insensitive substring match in
// either direction, and finally falls back to the studied topic itself.
// An empty studied topic matches nothing.
func MatchTopic(studied string, pathTopics []string) string {
	studied = strings.TrimSpace(studied)
	if studied == "" {
		return ""
	}
	if t, ok := canonical(studied, pathTopics); ok {
		return t
	}
	s := strings.ToLower(studied)
	for _, t := range pathTopics {
		lt := strings.ToLower(t)
		if lt == "" {
			continue
		}
		if strings.Contains(lt, s) || strings.Contains(s, lt) {
			return t
		}
	}
	return studied
}

// CanonicalTopic returns the path topic equal to topic ignoring case, or
// the trimmed topic itself. Unlike MatchTopic it never matches on
// substrings.
func CanonicalTopic(topic string, pathTopics []string) string {
	topic = strings.TrimSpace(topic)
	if t, ok := canonical(topic, pathTopics); ok {
		return t
	}
	return topic
}

func canonical(topic string, pathTopics []string) (string, bool) {
	for _, t := range pathTopics {
		if strings.EqualFold(t, topic) {
			return t, true
		}
	}
	return "", false
}

// MarkCompleted adds topic to the completed set. It reports whether the
// set changed.
func MarkCompleted(p *domain.Progress, topic string) bool {
	topic = strings.TrimSpace(topic)
	if topic == "" || contains(p.CompletedTopics, topic) {
		return false
	}
	p.CompletedTopics = append(p.CompletedTopics, topic)
	return true
}

// ProgressPercent returns completed / max(tracked, pathTopics) * 100, or
// 0 when the denominator is zero.
func ProgressPercent(completed, tracked, pathTopics int) float64 {
	total := max(tracked, pathTopics)
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// union appends the items of add missing from base, skipping blanks and
// duplicates, and always returns a fresh slice.
func union(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]struct{}, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
