// Package telemetry provides OpenTelemetry observability for RequirementsBot.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter is the global meter for RequirementsBot metrics
var meter = otel.Meter("requirementsbot")

// Attribute keys
const (
	KeyHTTPMethod     = "reqbot.http.method"
	KeyHTTPStatus     = "reqbot.http.status"
	KeyModel          = "reqbot.ai.model"
	KeyOutcome        = "reqbot.ai.outcome"
	KeyTokenDirection = "reqbot.token.direction"
)

// Counter instruments
var (
	requestsCounter         metric.Int64Counter
	upstreamRequestsCounter metric.Int64Counter
	tokensCounter           metric.Int64Counter
)

// Histogram instruments
var (
	requestDurationHistogram  metric.Float64Histogram
	upstreamDurationHistogram metric.Float64Histogram
)

// initMetrics initializes all metric instruments
// Must be called after Init() has set up the global meter provider
func initMetrics() error {
	var err error

	if requestsCounter, err = meter.Int64Counter(
		"reqbot_requests_total",
		metric.WithDescription("Total number of HTTP requests handled"),
		metric.WithUnit("{request}"),
	); err != nil {
		return err
	}

	if upstreamRequestsCounter, err = meter.Int64Counter(
		"reqbot_upstream_requests_total",
		metric.WithDescription("Total number of completion requests relayed upstream"),
		metric.WithUnit("{request}"),
	); err != nil {
		return err
	}

	if tokensCounter, err = meter.Int64Counter(
		"reqbot_tokens_total",
		metric.WithDescription("Total tokens reported by the completion service"),
		metric.WithUnit("{token}"),
	); err != nil {
		return err
	}

	if requestDurationHistogram, err = meter.Float64Histogram(
		"reqbot_request_duration_seconds",
		metric.WithDescription("Duration of HTTP request handling in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if upstreamDurationHistogram, err = meter.Float64Histogram(
		"reqbot_upstream_duration_seconds",
		metric.WithDescription("Duration of upstream completion calls in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	return nil
}

// RecordRequest records a handled HTTP request
func RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	if requestsCounter == nil {
		return
	}
	requestsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(KeyHTTPMethod, method),
			attribute.Int(KeyHTTPStatus, status),
		),
	)
	if requestDurationHistogram != nil {
		requestDurationHistogram.Record(ctx, duration.Seconds(),
			metric.WithAttributes(
				attribute.String(KeyHTTPMethod, method),
				attribute.Int(KeyHTTPStatus, status),
			),
		)
	}
}

// RecordUpstreamRequest records a relayed completion call
func RecordUpstreamRequest(ctx context.Context, model, outcome string, duration time.Duration) {
	if upstreamRequestsCounter == nil {
		return
	}
	upstreamRequestsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(KeyModel, model),
			attribute.String(KeyOutcome, outcome),
		),
	)
	if upstreamDurationHistogram != nil {
		upstreamDurationHistogram.Record(ctx, duration.Seconds(),
			metric.WithAttributes(
				attribute.String(KeyModel, model),
				attribute.String(KeyOutcome, outcome),
			),
		)
	}
}

// RecordTokens records token usage reported by the completion service
func RecordTokens(ctx context.Context, model string, input, output int) {
	if tokensCounter == nil {
		return
	}
	if input > 0 {
		tokensCounter.Add(ctx, int64(input),
			metric.WithAttributes(
				attribute.String(KeyModel, model),
				attribute.String(KeyTokenDirection, "input"),
			),
		)
	}
	if output > 0 {
		tokensCounter.Add(ctx, int64(output),
			metric.WithAttributes(
				attribute.String(KeyModel, model),
				attribute.String(KeyTokenDirection, "output"),
			),
		)
	}
}
