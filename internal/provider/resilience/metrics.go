package resilience

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/strideloop/strideloop/internal/provider/resilience"

// ProviderMetrics holds metrics for outbound provider calls.
// A nil *ProviderMetrics is valid and records nothing.
type ProviderMetrics struct {
	requestDuration  metric.Float64Histogram
	requestTotal     metric.Int64Counter
	retryTotal       metric.Int64Counter
	breakerOpenTotal metric.Int64Counter
}

// NewProviderMetrics creates metrics for monitoring external provider calls.
func NewProviderMetrics() (*ProviderMetrics, error) {
	meter := otel.Meter(meterName)

	requestDuration, err := meter.Float64Histogram(
		"provider.request.duration",
		metric.WithDescription("Duration of provider requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"provider.request.total",
		metric.WithDescription("Total number of provider requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	retryTotal, err := meter.Int64Counter(
		"provider.request.retries",
		metric.WithDescription("Number of retried provider requests"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	breakerOpenTotal, err := meter.Int64Counter(
		"provider.breaker.open",
		metric.WithDescription("Number of requests rejected by an open circuit breaker"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &ProviderMetrics{
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		retryTotal:       retryTotal,
		breakerOpenTotal: breakerOpenTotal,
	}, nil
}

// RecordRequest records the outcome of a provider request, retries included.
func (m *ProviderMetrics) RecordRequest(provider string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("provider.name", provider),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Use background context for metrics to avoid context cancellation issues
	ctx := context.TODO()
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRetry counts a retried attempt against a provider.
func (m *ProviderMetrics) RecordRetry(provider string) {
	if m == nil {
		return
	}
	m.retryTotal.Add(context.TODO(), 1, metric.WithAttributes(
		attribute.String("provider.name", provider),
	))
}

// RecordBreakerOpen counts a request rejected because the circuit breaker is open.
func (m *ProviderMetrics) RecordBreakerOpen(provider string) {
	if m == nil {
		return
	}
	m.breakerOpenTotal.Add(context.TODO(), 1, metric.WithAttributes(
		attribute.String("provider.name", provider),
	))
}
