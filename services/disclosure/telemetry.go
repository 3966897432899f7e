package disclosure

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var tracer = otel.Tracer("services/disclosure")
var meter = otel.Meter("services/disclosure")

var refreshCounter metric.Int64Counter
var requestCounter metric.Int64Counter

func init() {
	var err error
	refreshCounter, err = meter.Int64Counter(
		"disclosure.refreshes",
		metric.WithDescription("Upstream page refreshes, by source and result."),
	)
	if err != nil {
		slog.Warn("failed to create refresh counter", "err", err)
		refreshCounter = noop.Int64Counter{}
	}
	requestCounter, err = meter.Int64Counter(
		"disclosure.requests",
		metric.WithDescription("Handled HTTP requests, by route and status."),
	)
	if err != nil {
		slog.Warn("failed to create request counter", "err", err)
		requestCounter = noop.Int64Counter{}
	}
}
