package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/learncoach/internal/agents"
	"github.com/abhisek/learncoach/internal/coach"
	"github.com/abhisek/learncoach/internal/config"
	"github.com/abhisek/learncoach/internal/llm"
	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/observability"
	"github.com/abhisek/learncoach/internal/pipeline"
	"github.com/abhisek/learncoach/internal/store"
)

// coachRuntime holds everything a command needs, built from configuration.
type coachRuntime struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *store.Store
	provider llm.Provider
	agents   *agents.Set
	coach    *coach.Service
	pipeline *pipeline.Pipeline

	closers []func() error
}

// newRuntime loads configuration and wires the store, the model provider,
// the agents, the coach service and the pipeline. A provider that cannot
// be built is reported and left nil so every agent uses its fallback.
func newRuntime(cmd *cobra.Command) (*coachRuntime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		log.Debug("config", "warning", w)
	}

	rt := &coachRuntime{cfg: cfg, log: log}
	rt.closers = append(rt.closers, func() error { log.Sync(); return nil })

	shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "learncoach",
		Version:     version,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    true,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	rt.closers = append(rt.closers, func() error { return shutdown(context.Background()) })

	st, err := openStore(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)

	rt.provider = rt.buildProvider(ctx)
	rt.agents = agents.NewSet(rt.provider, log, cfg.Agents)
	rt.coach = coach.NewService(st, rt.agents.Session, log, cfg.Coach.CompletionThreshold)
	rt.pipeline = pipeline.New(rt.coach, rt.agents, log, pipeline.Options{
		StageFile: cfg.Coach.PipelineFile,
		Tracer:    observability.Tracer("learncoach/pipeline"),
	})
	return rt, nil
}

// loadConfig reads configuration and applies the global flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.Options{Path: cfgPath, EnvFile: envFile})
	if err != nil {
		return nil, err
	}
	if d, _ := cmd.Flags().GetString("driver"); d != "" {
		cfg.Database.Driver = d
	}
	if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	return cfg, nil
}

// openStore opens the configured database. SQLite without a DSN uses
// the default data path.
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn := cfg.Database.DSN
	if dsn == "" && cfg.Database.Driver != store.DriverPostgres {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dsn = p
	}
	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (rt *coachRuntime) buildProvider(ctx context.Context) llm.Provider {
	opts := llm.Options{
		EventRepo: rt.store.EventRepo(),
		Logger:    rt.log,
		CacheTTL:  rt.cfg.Cache.TTL,
		Tracer:    observability.Tracer("learncoach/llm"),
	}
	if rt.cfg.Cache.TTL > 0 {
		opts.Cache = rt.buildCache(ctx)
	}

	p, err := llm.NewProvider(ctx, rt.cfg.LLM, opts)
	if err != nil {
		rt.log.Warn("LLM provider not configured, using built-in fallbacks", "error", err)
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Rule-based fallbacks will be used.")
		return nil
	}
	return p
}

func (rt *coachRuntime) buildCache(ctx context.Context) llm.Cache {
	if addr := rt.cfg.Cache.RedisAddr; addr != "" {
		rc, err := llm.NewRedisCache(ctx, addr)
		if err == nil {
			rt.closers = append(rt.closers, rc.Close)
			return rc
		}
		rt.log.Warn("redis cache unavailable, caching in memory", "addr", addr, "error", err)
	}
	return llm.NewMemoryCache()
}

// Close releases resources in reverse order of acquisition.
func (rt *coachRuntime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Debug("close", "error", err)
		}
	}
	rt.closers = nil
}
