package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/store"
	"github.com/abhisek/learncoach/internal/web/response"
)

// RecentAnalysisCount is how many analyses the dashboard shows.
const RecentAnalysisCount = 5

// Choices offered by the intake and logging forms.
var (
	ExperienceLevels = []string{"beginner", "intermediate", "advanced"}
	LearningStyles   = []string{"visual", "reading", "hands-on", "auditory"}
	Difficulties     = []string{"gradual", "moderate", "challenging"}
	AssessmentTypes  = []string{"quiz", "project", "exercise", "test"}
)

// PageHandler serves the HTML pages.
type PageHandler struct {
	coach  Coach
	runner Runner
	log    *logger.Logger
}

func NewPageHandler(c Coach, r Runner, log *logger.Logger) *PageHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &PageHandler{coach: c, runner: r, log: log}
}

type formChoices struct {
	ExperienceLevels []string
	LearningStyles   []string
	Difficulties     []string
	AssessmentTypes  []string
	Weekdays         []string
}

func choices() formChoices {
	return formChoices{
		ExperienceLevels: ExperienceLevels,
		LearningStyles:   LearningStyles,
		Difficulties:     Difficulties,
		AssessmentTypes:  AssessmentTypes,
		Weekdays:         domain.Weekdays,
	}
}

type indexView struct {
	Students []domain.Student
	Matches  []domain.Student
	Query    string
	Searched bool
	Flash    string
	Error    string
	Choices  formChoices
}

// GET /?name=&student_id=
// With both name and id the student's dashboard opens directly; with only
// a name the matching students are listed.
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	view := indexView{
		Flash:   c.Query("flash"),
		Error:   c.Query("error"),
		Choices: choices(),
	}

	name := strings.TrimSpace(c.Query("name"))
	id := strings.TrimSpace(c.Query("student_id"))
	switch {
	case name != "" && id != "":
		s, err := h.coach.FindStudentByNameAndID(ctx, name, id)
		if err == nil {
			c.Redirect(http.StatusSeeOther, studentURL(s.ID, "", ""))
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			h.renderError(c, err)
			return
		}
		view.Error = fmt.Sprintf("No student named %q with id %q.", name, id)
	case name != "":
		matches, err := h.coach.FindStudentsByName(ctx, name)
		if err != nil {
			h.renderError(c, err)
			return
		}
		view.Query = name
		view.Searched = true
		view.Matches = matches
	}

	students, err := h.coach.ListStudents(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view.Students = students
	c.HTML(http.StatusOK, "index.html", view)
}

// POST /students
func (h *PageHandler) CreateStudent(c *gin.Context) {
	var form StudentForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape("Invalid student form: "+err.Error()))
		return
	}
	profile := form.Profile()
	if err := h.coach.SaveStudent(c.Request.Context(), profile); err != nil {
		if status, _ := response.Classify(err); status == http.StatusBadRequest {
			c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(err.Error()))
			return
		}
		h.renderError(c, err)
		return
	}
	st := h.runner.Run(c.Request.Context(), profile)
	flash := fmt.Sprintf("Welcome, %s! Your learning path has %d topics.", profile.Name, len(st.LearningPath.Topics))
	c.Redirect(http.StatusSeeOther, studentURL(profile.StudentID, flash, ""))
}

type topicView struct {
	domain.Topic
	Completed bool
}

type insightView struct {
	CreatedAt       time.Time
	Score           float64
	Recommendations []string
	NextTopics      []string
	Strategy        string
}

type dashboardView struct {
	Student  *domain.StudentProfile
	Report   domain.ProgressReport
	Path     *domain.LearningPath
	Topics   []topicView
	Schedule *domain.StoredSchedule
	Analyses []domain.StoredAnalysis
	Insights []insightView
	Flash    string
	Error    string
	Choices  formChoices
}

// GET /students/:id
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	profile, err := h.coach.FindStudent(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view := dashboardView{
		Student: profile,
		Flash:   c.Query("flash"),
		Error:   c.Query("error"),
		Choices: choices(),
	}
	if view.Report, err = h.coach.Progress(ctx, id); err != nil {
		h.renderError(c, err)
		return
	}
	if view.Path, err = h.coach.ActivePath(ctx, id); err != nil {
		h.renderError(c, err)
		return
	}
	view.Topics = markTopics(view.Path, view.Report.CompletedTopics)
	if view.Schedule, err = h.coach.ActiveSchedule(ctx, id); err != nil {
		h.renderError(c, err)
		return
	}
	if view.Analyses, err = h.coach.RecentAnalyses(ctx, id, RecentAnalysisCount); err != nil {
		h.renderError(c, err)
		return
	}
	insights, err := h.coach.Insights(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view.Insights = insightViews(insights)
	c.HTML(http.StatusOK, "student.html", view)
}

// POST /students/:id/sessions
func (h *PageHandler) RecordSession(c *gin.Context) {
	id := c.Param("id")
	var form SessionForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, studentURL(id, "", "Invalid session form: "+err.Error()))
		return
	}
	res, err := h.coach.RecordAnalyzedSession(c.Request.Context(), id, form.Session())
	if err != nil {
		h.redirectOrRender(c, id, err)
		return
	}
	flash := fmt.Sprintf("Session recorded. Effectiveness score: %.0f/100.", res.Analysis.EffectivenessScore)
	if res.Decision.MarkedComplete {
		flash += fmt.Sprintf(" Topic %q marked complete.", res.Decision.MatchedTopic)
	}
	c.Redirect(http.StatusSeeOther, studentURL(id, flash, ""))
}

// POST /students/:id/assessments
func (h *PageHandler) RecordAssessment(c *gin.Context) {
	id := c.Param("id")
	var form AssessmentForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, studentURL(id, "", "Invalid assessment form: "+err.Error()))
		return
	}
	saved, err := h.coach.RecordAssessment(c.Request.Context(), id, form.Assessment())
	if err != nil {
		h.redirectOrRender(c, id, err)
		return
	}
	flash := fmt.Sprintf("Assessment %q recorded: %.1f%%.", saved.Name, saved.Percentage)
	c.Redirect(http.StatusSeeOther, studentURL(id, flash, ""))
}

// POST /students/:id/topics/complete
func (h *PageHandler) CompleteTopic(c *gin.Context) {
	id := c.Param("id")
	var req CompleteTopicRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, studentURL(id, "", "Choose a topic to complete."))
		return
	}
	changed, err := h.coach.CompleteTopic(c.Request.Context(), id, req.Topic)
	if err != nil {
		h.redirectOrRender(c, id, err)
		return
	}
	flash := fmt.Sprintf("%q is already complete.", req.Topic)
	if changed {
		flash = fmt.Sprintf("Marked %q complete.", req.Topic)
	}
	c.Redirect(http.StatusSeeOther, studentURL(id, flash, ""))
}

// POST /students/:id/coach
func (h *PageHandler) Rerun(c *gin.Context) {
	id := c.Param("id")
	profile, err := h.coach.FindStudent(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	st := h.runner.Run(c.Request.Context(), *profile)
	flash := "Coaching plan refreshed."
	for _, r := range st.Stages {
		if r.Error != "" {
			flash = "Coaching plan refreshed with fallbacks for some stages."
			break
		}
	}
	c.Redirect(http.StatusSeeOther, studentURL(id, flash, ""))
}

func (h *PageHandler) redirectOrRender(c *gin.Context, id string, err error) {
	if status, _ := response.Classify(err); status == http.StatusBadRequest {
		c.Redirect(http.StatusSeeOther, studentURL(id, "", err.Error()))
		return
	}
	h.renderError(c, err)
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	status, code := response.Classify(err)
	msg := "Something went wrong. Please try again."
	switch status {
	case http.StatusNotFound:
		msg = "Student not found."
	case http.StatusBadRequest:
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("page request failed", "path", c.Request.URL.Path, "error", err)
	}
	_ = c.Error(err)
	c.HTML(status, "error.html", gin.H{"Status": status, "Code": code, "Message": msg})
}

func studentURL(id, flash, errMsg string) string {
	u := "/students/" + url.PathEscape(id)
	q := url.Values{}
	if flash != "" {
		q.Set("flash", flash)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func markTopics(path *domain.LearningPath, completed []string) []topicView {
	if path == nil {
		return nil
	}
	done := make(map[string]bool, len(completed))
	for _, t := range completed {
		done[strings.ToLower(t)] = true
	}
	out := make([]topicView, 0, len(path.Topics))
	for _, t := range path.Topics {
		out = append(out, topicView{Topic: t, Completed: done[strings.ToLower(t.Name)]})
	}
	return out
}

func insightViews(in []domain.AdaptiveInsight) []insightView {
	out := make([]insightView, 0, len(in))
	for _, ins := range in {
		v := insightView{CreatedAt: ins.CreatedAt, Score: ins.EffectivenessScore}
		var a domain.AdaptiveAnalysis
		if err := json.Unmarshal(ins.Data, &a); err == nil {
			v.Recommendations = a.Recommendations
			v.NextTopics = a.Agent.NextTopics
			v.Strategy = a.Agent.Strategy
		}
		out = append(out, v)
	}
	return out
}
