// Package otelhook provides an [erx.Hook] that records observable lifecycle events as OpenTelemetry metrics.
package otelhook

import (
	"context"
	"errors"
	"fmt"
	"github.com/saylorsolutions/erx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// MeterName is the instrumentation name used by [Default].
	MeterName = "github.com/saylorsolutions/erx"

	ActivationsMetric = "erx.activations"
	TeardownsMetric   = "erx.teardowns"
	EventsMetric      = "erx.events"

	ObservableKey = attribute.Key("erx.observable")
	KindKey       = attribute.Key("erx.kind")
)

var _ erx.Hook = (*Hook)(nil)

// Hook counts activations, teardowns, and events, with the observable name as an attribute.
// Events also have their [erx.Kind] as an attribute.
type Hook struct {
	activations metric.Int64Counter
	teardowns   metric.Int64Counter
	events      metric.Int64Counter
}

// New creates a [Hook] with counters created from meter.
func New(meter metric.Meter) (*Hook, error) {
	if meter == nil {
		return nil, errors.New("nil meter")
	}
	activations, err := meter.Int64Counter(ActivationsMetric,
		metric.WithDescription("Number of times an observable started producing"),
		metric.WithUnit("{activation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter '%s': %w", ActivationsMetric, err)
	}
	teardowns, err := meter.Int64Counter(TeardownsMetric,
		metric.WithDescription("Number of times an observable stopped producing"),
		metric.WithUnit("{teardown}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter '%s': %w", TeardownsMetric, err)
	}
	events, err := meter.Int64Counter(EventsMetric,
		metric.WithDescription("Number of events sent by observable producers"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter '%s': %w", EventsMetric, err)
	}
	return &Hook{
		activations: activations,
		teardowns:   teardowns,
		events:      events,
	}, nil
}

// Default creates a [Hook] using the global meter provider.
func Default() (*Hook, error) {
	return New(otel.Meter(MeterName))
}

func (h *Hook) Activated(name string) {
	h.activations.Add(context.Background(), 1, metric.WithAttributes(ObservableKey.String(name)))
}

func (h *Hook) TornDown(name string) {
	h.teardowns.Add(context.Background(), 1, metric.WithAttributes(ObservableKey.String(name)))
}

func (h *Hook) Emitted(name string, kind erx.Kind) {
	h.events.Add(context.Background(), 1, metric.WithAttributes(
		ObservableKey.String(name),
		KindKey.String(kind.String()),
	))
}
