// Package agents wraps the language model behind five task agents. Every
// agent returns a usable result: any provider, schema or decode error is
// logged and replaced by a static fallback.
package agents

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
)

var errNoProvider = errors.New("no LLM provider configured")

// caller is the shared call path of every agent.
type caller struct {
	provider llm.Provider
	log      *logger.Logger
}

func newCaller(p llm.Provider, log *logger.Logger, name string) caller {
	if log == nil {
		log = logger.NewNop()
	}
	return caller{provider: p, log: log.With("agent", name)}
}

// call sends req under the purpose label and decodes the reply into out.
func (c caller) call(ctx context.Context, purpose string, req llm.Request, out any) (*llm.Response, error) {
	if c.provider == nil {
		return nil, errNoProvider
	}
	resp, err := c.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		return nil, err
	}
	if err := resp.Decode(out); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c caller) fallback(purpose string, err error) {
	c.log.Warn("using fallback", "purpose", purpose, "error", err)
}

// Set bundles the five agents over one provider.
type Set struct {
	Path     *PathAgent
	Progress *ProgressAgent
	Schedule *ScheduleAgent
	Adaptive *AdaptiveAgent
	Session  *SessionAnalyzer
}

// NewSet builds every agent. A nil provider makes every agent return its
// fallback.
func NewSet(p llm.Provider, log *logger.Logger, cfg Config) *Set {
	return &Set{
		Path:     NewPathAgent(p, log, cfg.Path),
		Progress: NewProgressAgent(p, log, cfg.Progress),
		Schedule: NewScheduleAgent(p, log, cfg.Schedule),
		Adaptive: NewAdaptiveAgent(p, log, cfg.Adaptive),
		Session:  NewSessionAnalyzer(p, log, cfg.Session),
	}
}

// cleanList trims items, drops empties and never returns nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
