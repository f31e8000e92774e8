package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for health checks and monitoring passes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records a single check execution with duration and error status.
	RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, err error)

	// RecordPass records a full monitoring pass with its aggregate status.
	RecordPass(ctx context.Context, status string, duration time.Duration)

	// RecordAlert records a raised alert by severity.
	RecordAlert(ctx context.Context, severity string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	checkCount    metric.Int64Counter
	checkErrors   metric.Int64Counter
	checkDuration metric.Float64Histogram
	passCount     metric.Int64Counter
	passDuration  metric.Float64Histogram
	alertCount    metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	checkCount, err := meter.Int64Counter(
		"health.check.total",
		metric.WithDescription("Total number of check executions"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkErrors, err := meter.Int64Counter(
		"health.check.errors",
		metric.WithDescription("Total number of failed check executions"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		"health.check.duration_ms",
		metric.WithDescription("Check execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	passCount, err := meter.Int64Counter(
		"health.pass.total",
		metric.WithDescription("Total number of monitoring passes by aggregate status"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"health.pass.duration_ms",
		metric.WithDescription("Monitoring pass duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	alertCount, err := meter.Int64Counter(
		"health.alert.raised",
		metric.WithDescription("Total number of raised alerts by severity"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		checkCount:    checkCount,
		checkErrors:   checkErrors,
		checkDuration: checkDuration,
		passCount:     passCount,
		passDuration:  passDuration,
		alertCount:    alertCount,
	}, nil
}

// RecordCheck records metrics for one check execution.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", meta.Name),
		attribute.Bool("check.critical", meta.Critical),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("check.kind", meta.Kind))
	}

	opt := metric.WithAttributes(attrs...)

	m.checkCount.Add(ctx, 1, opt)
	if err != nil {
		m.checkErrors.Add(ctx, 1, opt)
	}
	m.checkDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordPass records one monitoring pass.
func (m *metricsImpl) RecordPass(ctx context.Context, status string, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("status", status))
	m.passCount.Add(ctx, 1, opt)
	m.passDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordAlert records one raised alert.
func (m *metricsImpl) RecordAlert(ctx context.Context, severity string) {
	m.alertCount.Add(ctx, 1, metric.WithAttributes(attribute.String("severity", severity)))
}

// NewMetrics creates a Metrics instance from an Observer's meter.
func NewMetrics(obs Observer) (Metrics, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return newMetrics(obs.Meter())
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordPass(ctx context.Context, status string, duration time.Duration) {}
func (m *noopMetrics) RecordAlert(ctx context.Context, severity string)                      {}

// NoopMetrics returns a Metrics that discards everything.
func NoopMetrics() Metrics { return &noopMetrics{} }
