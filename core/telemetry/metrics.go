package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TokenMetrics records sign and verify operations.
// Uses the global meter provider, which is a no-op until one is installed.
type TokenMetrics struct {
	signed   metric.Int64Counter
	verified metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTokenMetrics registers the token instruments for a service.
func NewTokenMetrics(serviceName string) (*TokenMetrics, error) {
	return NewTokenMetricsWithMeter(otel.Meter(serviceName))
}

// NewTokenMetricsWithMeter registers the token instruments on meter.
func NewTokenMetricsWithMeter(meter metric.Meter) (*TokenMetrics, error) {
	signed, err := meter.Int64Counter(
		"jwt_tokens_signed_total",
		metric.WithDescription("Total number of signed tokens"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	verified, err := meter.Int64Counter(
		"jwt_tokens_verified_total",
		metric.WithDescription("Total number of verified tokens"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"jwt_operation_duration",
		metric.WithDescription("Duration of sign and verify operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &TokenMetrics{
		signed:   signed,
		verified: verified,
		duration: duration,
	}, nil
}

// RecordSign records a sign attempt for a profile.
func (m *TokenMetrics) RecordSign(ctx context.Context, profile string, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("profile", profile),
		attribute.Bool("success", ok),
	)
	m.signed.Add(ctx, 1, attrs)
	m.record(ctx, "sign", profile, elapsed)
}

// RecordVerify records a verification outcome for a profile.
func (m *TokenMetrics) RecordVerify(ctx context.Context, profile string, valid bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.verified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("profile", profile),
		attribute.Bool("valid", valid),
	))
	m.record(ctx, "verify", profile, elapsed)
}

func (m *TokenMetrics) record(ctx context.Context, op, profile string, elapsed time.Duration) {
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("profile", profile),
	))
}
