package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// BusinessMetrics holds the domain counters: how much content flows through
// normalization, clipping and rendering, and where quotas push back
type BusinessMetrics struct {
	normalizations  metric.Int64Counter
	clipSaves       metric.Int64Counter
	renderAttempts  metric.Int64Counter
	quotaRejections metric.Int64Counter
	follows         metric.Int64UpDownCounter
}

// NewBusinessMetrics creates business metrics instruments
func NewBusinessMetrics() (*BusinessMetrics, error) {
	meter := otel.Meter(instrumentationName)

	normalizations, err := meter.Int64Counter(
		"digicollect.content.normalizations",
		metric.WithDescription("Total number of URL normalization requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, err
	}

	clipSaves, err := meter.Int64Counter(
		"digicollect.clips.saved",
		metric.WithDescription("Total number of clips saved into collections"),
		metric.WithUnit("{clips}"),
	)
	if err != nil {
		return nil, err
	}

	renderAttempts, err := meter.Int64Counter(
		"digicollect.render.attempts",
		metric.WithDescription("Total number of clip render attempts"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return nil, err
	}

	quotaRejections, err := meter.Int64Counter(
		"digicollect.quota.rejections",
		metric.WithDescription("Total number of operations rejected by plan quotas"),
		metric.WithUnit("{rejections}"),
	)
	if err != nil {
		return nil, err
	}

	follows, err := meter.Int64UpDownCounter(
		"digicollect.collections.follows",
		metric.WithDescription("Net number of active collection follows"),
		metric.WithUnit("{follows}"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		normalizations:  normalizations,
		clipSaves:       clipSaves,
		renderAttempts:  renderAttempts,
		quotaRejections: quotaRejections,
		follows:         follows,
	}, nil
}

// RecordNormalization records a URL normalization request
func (m *BusinessMetrics) RecordNormalization(ctx context.Context, platform string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("platform", platform),
		attribute.Bool("success", success),
	}
	m.normalizations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordClipSave records a saved clip
func (m *BusinessMetrics) RecordClipSave(ctx context.Context, kind, specKind string) {
	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("spec", specKind),
	}
	m.clipSaves.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRenderAttempt records a clip render attempt
func (m *BusinessMetrics) RecordRenderAttempt(ctx context.Context, specKind string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("spec", specKind),
		attribute.Bool("success", success),
	}
	m.renderAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordQuotaRejection records an operation blocked by a plan quota
func (m *BusinessMetrics) RecordQuotaRejection(ctx context.Context, operation string) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
	}
	m.quotaRejections.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFollowChange records a follow (+1) or unfollow (-1)
func (m *BusinessMetrics) RecordFollowChange(ctx context.Context, delta int64) {
	m.follows.Add(ctx, delta)
}
