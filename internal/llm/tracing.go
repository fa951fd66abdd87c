package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abhisek/interviewer/internal/llm"

// TracingProvider opens a span per model call on the global tracer.
// Without an installed SDK the global tracer is a no-op.
type TracingProvider struct {
	inner  Provider
	tracer trace.Tracer
}

// WithTracing wraps p with OpenTelemetry spans.
func WithTracing(p Provider) Provider {
	return &TracingProvider{inner: p, tracer: otel.Tracer(tracerName)}
}

func (t *TracingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = t.inner.ModelID()
	}
	attrs := []attribute.KeyValue{
		attribute.String("llm.model", model),
		attribute.String("llm.purpose", string(PurposeFrom(ctx))),
	}
	if req.Schema != nil {
		attrs = append(attrs, attribute.String("llm.schema", req.Schema.Name))
	}
	if s := SessionFrom(ctx); s != "" {
		attrs = append(attrs, attribute.String("interview.session_id", s))
	}

	ctx, span := t.tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
	defer span.End()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Outcome(err))
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
