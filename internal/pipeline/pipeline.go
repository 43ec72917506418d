// Package pipeline runs the four coaching stages for one student in a
// fixed order. A failing stage is logged and replaced by its fallback;
// the run always completes.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/domain"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

// State is threaded through the stages.
type State struct {
	Student          domain.StudentProfile   `json:"student_data"`
	LearningPath     domain.LearningPath     `json:"learning_path"`
	ProgressSummary  domain.ProgressSummary  `json:"progress_summary"`
	Schedule         domain.Schedule         `json:"schedule"`
	AdaptiveAnalysis domain.AdaptiveAnalysis `json:"adaptive_analysis"`
	Stages           []StageResult           `json:"stages"`
}

// StageResult records how one stage went.
type StageResult struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Options tune a Pipeline.
type Options struct {
	// StageFile overrides the embedded stage file.
	StageFile string
	Tracer    trace.Tracer
}

type stageFunc func(ctx context.Context, st *State) error

// Pipeline is the ordered stage runner.
type Pipeline struct {
	coach  *coach.Service
	agents *agents.Set
	log    *logger.Logger
	tracer trace.Tracer
	order  []string
	stages map[string]stage
}

type stage struct {
	run      stageFunc
	fallback func(st *State)
}

// New creates a Pipeline over the service and agents.
func New(svc *coach.Service, set *agents.Set, log *logger.Logger, opts Options) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("learncoach/pipeline")
	}
	p := &Pipeline{
		coach:  svc,
		agents: set,
		log:    log.With("component", "pipeline"),
		tracer: opts.Tracer,
	}
	p.order = loadStageOrder(opts.StageFile, p.log)
	p.stages = map[string]stage{
		StageLearningPath:    {run: p.learningPath, fallback: learningPathFallback},
		StageProgressSummary: {run: p.progressSummary, fallback: progressSummaryFallback},
		StageSchedule:        {run: p.buildSchedule, fallback: scheduleFallback},
		StageAdaptive:        {run: p.adaptiveAnalysis, fallback: adaptiveFallback},
	}
	return p
}

// Order returns the enabled stages in run order.
func (p *Pipeline) Order() []string {
	return append([]string(nil), p.order...)
}

// Run executes every enabled stage for the profile and returns the final
// state.
func (p *Pipeline) Run(ctx context.Context, profile domain.StudentProfile) *State {
	if profile.CurrentTopic == "" {
		profile.CurrentTopic = profile.Topic()
	}
	st := &State{Student: profile}

	ctx = llm.WithStudent(ctx, profile.StudentID)
	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("student.id", profile.StudentID),
		attribute.String("student.topic", profile.CurrentTopic),
	))
	defer span.End()

	for _, name := range p.order {
		s, ok := p.stages[name]
		if !ok {
			continue
		}
		st.Stages = append(st.Stages, p.runStage(ctx, name, s, st))
	}
	return st
}

func (p *Pipeline) runStage(ctx context.Context, name string, s stage, st *State) (res StageResult) {
	ctx, span := p.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	res.Name = name
	defer func() {
		res.DurationMS = time.Since(start).Milliseconds()
	}()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("stage %s panicked: %v", name, r)
			p.fail(span, name, st, s, err)
			res.Error = err.Error()
		}
	}()

	if err := s.run(ctx, st); err != nil {
		p.fail(span, name, st, s, err)
		res.Error = err.Error()
		return res
	}
	p.log.Info("stage completed", "stage", name, "student_id", st.Student.StudentID)
	return res
}

func (p *Pipeline) fail(span trace.Span, name string, st *State, s stage, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.log.Error("stage failed, using fallback", "stage", name, "student_id", st.Student.StudentID, "error", err)
	s.fallback(st)
}

func loadStageOrder(path string, log *logger.Logger) []string {
	data, err := readStageFile(path)
	if err == nil {
		var order []string
		if order, err = parseStageOrder(data); err == nil {
			return order
		}
	}
	log.Warn("pipeline stage file invalid, using built-in order", "path", path, "error", err)
	return fallbackStageOrder
}
