package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/store"
	"github.com/abhisek/learncoach/internal/web/response"
)

// DefaultAnalysisLimit is how many analyses GET .../analyses returns
// without a limit parameter.
const DefaultAnalysisLimit = 5

// APIHandler serves the JSON API under /api.
type APIHandler struct {
	coach  Coach
	runner Runner
	log    *logger.Logger
}

func NewAPIHandler(c Coach, r Runner, log *logger.Logger) *APIHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &APIHandler{coach: c, runner: r, log: log}
}

// GET /api/students?name=
func (h *APIHandler) ListStudents(c *gin.Context) {
	var (
		students []domain.Student
		err      error
	)
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		students, err = h.coach.FindStudentsByName(c.Request.Context(), name)
	} else {
		students, err = h.coach.ListStudents(c.Request.Context())
	}
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if students == nil {
		students = []domain.Student{}
	}
	response.RespondOK(c, gin.H{"students": students})
}

// POST /api/students
// body: a student profile; student_id defaults to one derived from the name.
func (h *APIHandler) CreateStudent(c *gin.Context) {
	var p domain.StudentProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeValidation, err)
		return
	}
	if strings.TrimSpace(p.StudentID) == "" && strings.TrimSpace(p.Name) != "" {
		p.StudentID = domain.StudentIDFor(p.Name)
	}
	if err := h.coach.SaveStudent(c.Request.Context(), p); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"student": p})
}

// GET /api/students/:id
func (h *APIHandler) GetStudent(c *gin.Context) {
	p, err := h.coach.FindStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"student": p})
}

// GET /api/students/:id/progress
func (h *APIHandler) GetProgress(c *gin.Context) {
	id := c.Param("id")
	if !h.exists(c, id) {
		return
	}
	report, err := h.coach.Progress(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": report})
}

// GET /api/students/:id/paths
func (h *APIHandler) ListPaths(c *gin.Context) {
	id := c.Param("id")
	if !h.exists(c, id) {
		return
	}
	paths, err := h.coach.LearningPaths(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if paths == nil {
		paths = []domain.LearningPath{}
	}
	response.RespondOK(c, gin.H{"learning_paths": paths})
}

// GET /api/students/:id/schedule
func (h *APIHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")
	if !h.exists(c, id) {
		return
	}
	sch, err := h.coach.ActiveSchedule(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if sch == nil {
		response.RespondErr(c, fmt.Errorf("schedule for %s: %w", id, store.ErrNotFound))
		return
	}
	response.RespondOK(c, gin.H{"schedule": sch})
}

// GET /api/students/:id/insights
func (h *APIHandler) ListInsights(c *gin.Context) {
	id := c.Param("id")
	if !h.exists(c, id) {
		return
	}
	insights, err := h.coach.Insights(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if insights == nil {
		insights = []domain.AdaptiveInsight{}
	}
	response.RespondOK(c, gin.H{"insights": insights})
}

// GET /api/students/:id/analyses?limit=
func (h *APIHandler) ListAnalyses(c *gin.Context) {
	id := c.Param("id")
	if !h.exists(c, id) {
		return
	}
	limit := DefaultAnalysisLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, response.CodeValidation, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}
	analyses, err := h.coach.RecentAnalyses(c.Request.Context(), id, limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if analyses == nil {
		analyses = []domain.StoredAnalysis{}
	}
	response.RespondOK(c, gin.H{"analyses": analyses})
}

// POST /api/students/:id/sessions
// body: a study session; mood and productivity default to 3.
func (h *APIHandler) RecordSession(c *gin.Context) {
	var sess domain.StudySession
	if err := c.ShouldBindJSON(&sess); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeValidation, err)
		return
	}
	res, err := h.coach.RecordAnalyzedSession(c.Request.Context(), c.Param("id"), sess)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, res)
}

// POST /api/students/:id/assessments
func (h *APIHandler) RecordAssessment(c *gin.Context) {
	var a domain.Assessment
	if err := c.ShouldBindJSON(&a); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeValidation, err)
		return
	}
	saved, err := h.coach.RecordAssessment(c.Request.Context(), c.Param("id"), a)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"assessment": saved})
}

// POST /api/students/:id/topics/complete
// body: { "topic": "..." }
func (h *APIHandler) CompleteTopic(c *gin.Context) {
	var req CompleteTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeValidation, err)
		return
	}
	changed, err := h.coach.CompleteTopic(c.Request.Context(), c.Param("id"), req.Topic)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": req.Topic, "newly_completed": changed})
}

// POST /api/students/:id/coach
// Reruns the pipeline for a saved student.
func (h *APIHandler) RunForStudent(c *gin.Context) {
	p, err := h.coach.FindStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, h.runner.Run(c.Request.Context(), *p))
}

// POST /api/coach/run
// body: a student profile. Profiles without a student_id are not persisted.
func (h *APIHandler) Run(c *gin.Context) {
	var p domain.StudentProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeValidation, err)
		return
	}
	st := h.runner.Run(c.Request.Context(), p)
	h.log.Info("pipeline run via api", "student_id", p.StudentID, "stages", len(st.Stages))
	response.RespondOK(c, st)
}

func (h *APIHandler) exists(c *gin.Context, id string) bool {
	if _, err := h.coach.FindStudent(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return false
	}
	return true
}
