package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/learncoach/internal/domain"
)

// SessionRepo persists study sessions.
type SessionRepo struct{ repoBase }

var sessionColumns = []string{"id", "student_id", "topic", "session_date", "duration_minutes", "activities", "notes", "mood_rating", "productivity_rating", "created_at"}

// Create inserts the session and fills in its ID and timestamps.
func (r *SessionRepo) Create(ctx context.Context, s *domain.StudySession) error {
	if s.ID == "" {
		s.ID = newID()
	}
	s.CreatedAt = r.stamp(s.CreatedAt)
	s.SessionDate = r.stamp(s.SessionDate)

	b := r.builder()
	insert := b.Insert("study_sessions").
		Columns(sessionColumns...).
		Values(s.ID, s.StudentID, s.Topic, formatTime(s.SessionDate), s.DurationMinutes,
			mustJSONList(s.Activities), s.Notes, s.MoodRating, s.ProductivityRating, formatTime(s.CreatedAt))
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

// ListRecent returns the student's latest n sessions by session date.
func (r *SessionRepo) ListRecent(ctx context.Context, studentID string, n int) ([]domain.StudySession, error) {
	b := r.builder()
	q := b.Select(sessionColumns...).From(b.Table("study_sessions")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("session_date"), entsql.Desc("created_at"))
	if n > 0 {
		q = q.Limit(n)
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query sessions for %s: %w", studentID, err)
	}
	defer rows.Close()

	var out []domain.StudySession
	for rows.Next() {
		var (
			s                   domain.StudySession
			date, created, acts string
		)
		if err := rows.Scan(&s.ID, &s.StudentID, &s.Topic, &date, &s.DurationMinutes, &acts,
			&s.Notes, &s.MoodRating, &s.ProductivityRating, &created); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.SessionDate = parseTime(date)
		s.CreatedAt = parseTime(created)
		s.Activities = stringList(sql.NullString{String: acts, Valid: true})
		out = append(out, s)
	}
	return out, rows.Err()
}

// Stats aggregates every session of the student.
func (r *SessionRepo) Stats(ctx context.Context, studentID string) (domain.SessionStats, error) {
	b := r.builder()
	q := b.Select("mood_rating", "productivity_rating", "duration_minutes").
		From(b.Table("study_sessions")).
		Where(entsql.EQ("student_id", studentID))
	rows, err := r.query(ctx, q)
	if err != nil {
		return domain.SessionStats{}, fmt.Errorf("query session stats for %s: %w", studentID, err)
	}
	defer rows.Close()

	var (
		st                 domain.SessionStats
		moodSum, prodSum   int
		mood, prod, minute int
	)
	for rows.Next() {
		if err := rows.Scan(&mood, &prod, &minute); err != nil {
			return domain.SessionStats{}, fmt.Errorf("scan session stats: %w", err)
		}
		st.Count++
		moodSum += mood
		prodSum += prod
		st.TotalMinutes += minute
	}
	if err := rows.Err(); err != nil {
		return domain.SessionStats{}, err
	}
	if st.Count > 0 {
		st.AverageMood = float64(moodSum) / float64(st.Count)
		st.AverageProductivity = float64(prodSum) / float64(st.Count)
	}
	return st, nil
}

// AssessmentRepo persists scored assessments.
type AssessmentRepo struct{ repoBase }

var assessmentColumns = []string{"id", "student_id", "topic", "assessment_type", "assessment_name", "max_score", "achieved_score", "percentage", "time_taken_minutes", "attempts", "feedback", "assessment_date"}

// Create inserts the assessment. The percentage is always derived from
// the scores.
func (r *AssessmentRepo) Create(ctx context.Context, a *domain.Assessment) error {
	if a.ID == "" {
		a.ID = newID()
	}
	a.Date = r.stamp(a.Date)
	a.Percentage = domain.ScorePercentage(a.AchievedScore, a.MaxScore)
	if a.Attempts == 0 {
		a.Attempts = 1
	}

	b := r.builder()
	insert := b.Insert("assessments").
		Columns(assessmentColumns...).
		Values(a.ID, a.StudentID, a.Topic, a.Type, a.Name, a.MaxScore, a.AchievedScore, a.Percentage,
			a.TimeTakenMinutes, a.Attempts, a.Feedback, formatTime(a.Date))
	if _, err := r.exec(ctx, insert); err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// ListRecent returns the student's latest n assessments.
func (r *AssessmentRepo) ListRecent(ctx context.Context, studentID string, n int) ([]domain.Assessment, error) {
	b := r.builder()
	q := b.Select(assessmentColumns...).From(b.Table("assessments")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("assessment_date"))
	if n > 0 {
		q = q.Limit(n)
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query assessments for %s: %w", studentID, err)
	}
	defer rows.Close()

	var out []domain.Assessment
	for rows.Next() {
		var (
			a    domain.Assessment
			date string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Topic, &a.Type, &a.Name, &a.MaxScore, &a.AchievedScore,
			&a.Percentage, &a.TimeTakenMinutes, &a.Attempts, &a.Feedback, &date); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.Date = parseTime(date)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Stats returns the average percentage and count of the student's assessments.
func (r *AssessmentRepo) Stats(ctx context.Context, studentID string) (domain.AssessmentStats, error) {
	b := r.builder()
	q := b.Select("percentage").From(b.Table("assessments")).Where(entsql.EQ("student_id", studentID))
	rows, err := r.query(ctx, q)
	if err != nil {
		return domain.AssessmentStats{}, fmt.Errorf("query assessment stats for %s: %w", studentID, err)
	}
	defer rows.Close()

	var (
		st  domain.AssessmentStats
		sum float64
		pct float64
	)
	for rows.Next() {
		if err := rows.Scan(&pct); err != nil {
			return domain.AssessmentStats{}, fmt.Errorf("scan assessment stats: %w", err)
		}
		st.Count++
		sum += pct
	}
	if err := rows.Err(); err != nil {
		return domain.AssessmentStats{}, err
	}
	if st.Count > 0 {
		st.AveragePercent = sum / float64(st.Count)
	}
	return st, nil
}

// AnalysisRepo persists session analyses.
type AnalysisRepo struct{ repoBase }

var analysisColumns = []string{"id", "student_id", "session_id", "analysis_data", "topic_alignment_score", "effectiveness_score", "created_at"}

// Create stores the analysis of one session.
func (r *AnalysisRepo) Create(ctx context.Context, studentID, sessionID string, a domain.SessionAnalysis) (*domain.StoredAnalysis, error) {
	data, err := marshalJSON(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	stored := &domain.StoredAnalysis{
		ID:                  newID(),
		StudentID:           studentID,
		SessionID:           sessionID,
		Analysis:            a,
		TopicAlignmentScore: a.TopicAlignment.AlignmentScore,
		EffectivenessScore:  a.EffectivenessScore(),
		CreatedAt:           r.now(),
	}

	b := r.builder()
	insert := b.Insert("study_session_analyses").
		Columns(analysisColumns...).
		Values(stored.ID, studentID, sessionID, data, stored.TopicAlignmentScore, stored.EffectivenessScore, formatTime(stored.CreatedAt))
	if _, err := r.exec(ctx, insert); err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return stored, nil
}

// ListRecent returns the student's latest n analyses.
func (r *AnalysisRepo) ListRecent(ctx context.Context, studentID string, n int) ([]domain.StoredAnalysis, error) {
	b := r.builder()
	q := b.Select(analysisColumns...).From(b.Table("study_session_analyses")).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("created_at"))
	if n > 0 {
		q = q.Limit(n)
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query analyses for %s: %w", studentID, err)
	}
	defer rows.Close()

	var out []domain.StoredAnalysis
	for rows.Next() {
		var (
			a             domain.StoredAnalysis
			data, created string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SessionID, &data, &a.TopicAlignmentScore, &a.EffectivenessScore, &created); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		_ = json.Unmarshal([]byte(data), &a.Analysis)
		a.CreatedAt = parseTime(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

// AverageEffectiveness returns the mean effectiveness over all stored
// analyses and how many there are.
func (r *AnalysisRepo) AverageEffectiveness(ctx context.Context, studentID string) (float64, int, error) {
	b := r.builder()
	q := b.Select("effectiveness_score").From(b.Table("study_session_analyses")).Where(entsql.EQ("student_id", studentID))
	rows, err := r.query(ctx, q)
	if err != nil {
		return 0, 0, fmt.Errorf("query effectiveness for %s: %w", studentID, err)
	}
	defer rows.Close()

	var (
		sum, v float64
		n      int
	)
	for rows.Next() {
		if err := rows.Scan(&v); err != nil {
			return 0, 0, fmt.Errorf("scan effectiveness: %w", err)
		}
		sum += v
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sum / float64(n), n, nil
}
