package llm

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/learncoach/internal/logger"
	"github.com/abhisek/learncoach/internal/store"
)

// Options carries the optional collaborators of NewProvider.
type Options struct {
	EventRepo store.EventRepo
	Logger    *logger.Logger
	Cache     Cache
	CacheTTL  time.Duration
	Tracer    trace.Tracer
}

// NewProvider creates a Provider from configuration. The result is wrapped
// as: caller → tracing → timeout → cache → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, opts.EventRepo, opts.Logger)
	p = WithRetry(p, cfg.Retry)
	if opts.Cache != nil {
		p = WithCache(p, opts.Cache, opts.CacheTTL, opts.Logger)
	}
	if cfg.Timeout > 0 {
		p = &timeoutProvider{inner: p, timeout: cfg.Timeout}
	}
	return WithTracing(p, opts.Tracer), nil
}

// timeoutProvider bounds each Generate call, retries included.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
