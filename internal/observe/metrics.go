// Package observe records OpenTelemetry metrics for grading and HTTP traffic.
// InitProvider bridges them to Prometheus so they can be scraped from
// /metrics. Tests should build Metrics with NewMetrics and their own
// MeterProvider.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mind-engage/pseudocheck/internal/grading"
)

const meterName = "github.com/mind-engage/pseudocheck"

type Metrics struct {
	// Verdicts counts gradings by attribute.String("status", ...).
	Verdicts metric.Int64Counter

	// Discrepancies counts reported discrepancies by attribute.String("reason", ...).
	Discrepancies metric.Int64Counter

	// GradeDuration tracks time spent inside the matcher.
	GradeDuration metric.Float64Histogram

	// RecordErrors counts submissions that could not be logged.
	RecordErrors metric.Int64Counter

	// HTTPRequestDuration is recorded with "method", "route" and "status".
	HTTPRequestDuration metric.Float64Histogram
}

// gradeBuckets are in seconds; grading is linear in the input so almost
// everything lands in the first few buckets.
var gradeBuckets = []float64{
	0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Verdicts, err = m.Int64Counter("pseudocheck.grading.verdicts",
		metric.WithDescription("Graded submissions by verdict status."),
	); err != nil {
		return nil, err
	}
	if met.Discrepancies, err = m.Int64Counter("pseudocheck.grading.discrepancies",
		metric.WithDescription("Reported line discrepancies by reason."),
	); err != nil {
		return nil, err
	}
	if met.GradeDuration, err = m.Float64Histogram("pseudocheck.grading.duration",
		metric.WithDescription("Time spent grading one submission."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(gradeBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RecordErrors, err = m.Int64Counter("pseudocheck.submissions.record_errors",
		metric.WithDescription("Submissions that could not be written to the submission log."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("pseudocheck.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// ObserveVerdict implements grading.Observer.
func (m *Metrics) ObserveVerdict(ctx context.Context, v grading.Verdict, took time.Duration) {
	m.Verdicts.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(v.Status))))
	for _, d := range v.Discrepancies {
		m.Discrepancies.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(d.Reason))))
	}
	m.GradeDuration.Record(ctx, took.Seconds())
}

// RecordError is a question.WithRecordErrorHook callback.
func (m *Metrics) RecordError(ctx context.Context) {
	m.RecordErrors.Add(ctx, 1)
}

var _ grading.Observer = (*Metrics)(nil)
