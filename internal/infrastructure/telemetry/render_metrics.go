package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Render outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// RenderMetrics counts and times document renders.
type RenderMetrics struct {
	renders  *Counter
	failures *Counter
	duration *Histogram
	size     *Histogram
	jobs     *Counter
}

// NewRenderMetrics registers the render instruments on meter
func NewRenderMetrics(meter metric.Meter) (*RenderMetrics, error) {
	renders, err := NewCounter(meter, "memo_renders_total", "Documents rendered", "{render}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "memo_render_failures_total", "Renders that failed", "{render}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "memo_render_duration_seconds",
		Description: "Render latency",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	size, err := NewHistogram(meter, HistogramOpts{
		Name:        "memo_render_size_bytes",
		Description: "Size of rendered output",
		Unit:        "By",
		Boundaries:  DocumentSizeBuckets,
	})
	if err != nil {
		return nil, err
	}
	jobs, err := NewCounter(meter, "memo_print_jobs_total", "Print jobs finished by status", "{job}")
	if err != nil {
		return nil, err
	}
	return &RenderMetrics{renders: renders, failures: failures, duration: duration, size: size, jobs: jobs}, nil
}

// RecordRender records one render attempt. size is ignored on failure.
func (m *RenderMetrics) RecordRender(ctx context.Context, format, layout string, d time.Duration, size int, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	attrs := []attribute.KeyValue{
		AttrRenderFormat.String(format),
		AttrRenderLayout.String(layout),
		AttrRenderOutcome.String(outcome),
	}
	m.renders.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, attrs...)
	if err != nil {
		m.failures.Inc(ctx, attrs[:2]...)
		return
	}
	m.size.Record(ctx, float64(size), attrs[:2]...)
}

// RecordJob counts a print job reaching a terminal status
func (m *RenderMetrics) RecordJob(ctx context.Context, status, errorCode string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrJobStatus.String(status)}
	if errorCode != "" {
		attrs = append(attrs, AttrJobErrorCode.String(errorCode))
	}
	m.jobs.Inc(ctx, attrs...)
}
