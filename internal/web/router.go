// Package web serves the coach over HTTP: a JSON API under /api and
// server-rendered pages for students.
package web

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/web/handlers"
	"github.com/abhisek/learncoach/internal/web/middleware"
	"github.com/abhisek/learncoach/internal/web/templates"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	HealthHandler *handlers.HealthHandler
	APIHandler    *handlers.APIHandler
	PageHandler   *handlers.PageHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "learncoach"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.AttachTraceContext())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if h := cfg.APIHandler; h != nil {
		api.GET("/students", h.ListStudents)
		api.POST("/students", h.CreateStudent)
		api.GET("/students/:id", h.GetStudent)
		api.GET("/students/:id/progress", h.GetProgress)
		api.GET("/students/:id/paths", h.ListPaths)
		api.GET("/students/:id/schedule", h.GetSchedule)
		api.GET("/students/:id/insights", h.ListInsights)
		api.GET("/students/:id/analyses", h.ListAnalyses)
		api.POST("/students/:id/sessions", h.RecordSession)
		api.POST("/students/:id/assessments", h.RecordAssessment)
		api.POST("/students/:id/topics/complete", h.CompleteTopic)
		api.POST("/students/:id/coach", h.RunForStudent)
		api.POST("/coach/run", h.Run)
	}

	// Pages
	if h := cfg.PageHandler; h != nil {
		tmpl, err := templates.Parse()
		if err != nil {
			return nil, err
		}
		r.SetHTMLTemplate(tmpl)

		r.GET("/", h.Index)
		r.POST("/students", h.CreateStudent)
		r.GET("/students/:id", h.Dashboard)
		r.POST("/students/:id/sessions", h.RecordSession)
		r.POST("/students/:id/assessments", h.RecordAssessment)
		r.POST("/students/:id/topics/complete", h.CompleteTopic)
		r.POST("/students/:id/coach", h.Rerun)
	}

	return r, nil
}
