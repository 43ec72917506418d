package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abhisek/learncoach/internal/llm"

// TracingProvider is a decorator that opens one span per Generate call.
type TracingProvider struct {
	inner  Provider
	tracer trace.Tracer
}

// WithTracing wraps a Provider with OpenTelemetry spans. A nil tracer uses
// the global provider.
func WithTracing(p Provider, tracer trace.Tracer) Provider {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &TracingProvider{inner: p, tracer: tracer}
}

func (t *TracingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attrs := []attribute.KeyValue{
		attribute.String("llm.purpose", PurposeFrom(ctx)),
		attribute.String("llm.model", t.inner.ModelID()),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	}
	if id := StudentFrom(ctx); id != "" {
		attrs = append(attrs, attribute.String("student.id", id))
	}
	ctx, span := t.tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
	defer span.End()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("llm.input_tokens", resp.Usage.InputTokens),
		attribute.Int("llm.output_tokens", resp.Usage.OutputTokens),
	)
	return resp, nil
}

func (t *TracingProvider) ModelID() string {
	return t.inner.ModelID()
}
