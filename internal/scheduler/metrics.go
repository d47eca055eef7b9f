package scheduler

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/rios0rios0/repofetch/internal/scheduler"

type instruments struct {
	starts   metric.Int64Counter
	retries  metric.Int64Counter
	failures metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newInstruments(provider metric.MeterProvider) (*instruments, error) {
	meter := provider.Meter(meterName)

	starts, err := meter.Int64Counter(
		"repofetch.scheduler.starts",
		metric.WithDescription("Operation attempts admitted by the rate gate"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create starts counter: %w", err)
	}
	retries, err := meter.Int64Counter(
		"repofetch.scheduler.retries",
		metric.WithDescription("Attempts made after a transient failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retries counter: %w", err)
	}
	failures, err := meter.Int64Counter(
		"repofetch.scheduler.failures",
		metric.WithDescription("Operations that ended with an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}
	inFlight, err := meter.Int64UpDownCounter(
		"repofetch.scheduler.in_flight",
		metric.WithDescription("Operations holding a concurrency slot"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-flight counter: %w", err)
	}

	return &instruments{starts: starts, retries: retries, failures: failures, inFlight: inFlight}, nil
}

func resourceAttr(key string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("resource", key))
}

func (m *instruments) started(ctx context.Context, key string, attempt int) {
	m.starts.Add(ctx, 1, resourceAttr(key))
	if attempt > 1 {
		m.retries.Add(ctx, 1, resourceAttr(key))
	}
}

func (m *instruments) failed(ctx context.Context, key string) {
	m.failures.Add(ctx, 1, resourceAttr(key))
}

func (m *instruments) enter(ctx context.Context, key string) {
	m.inFlight.Add(ctx, 1, resourceAttr(key))
}

func (m *instruments) leave(ctx context.Context, key string) {
	m.inFlight.Add(ctx, -1, resourceAttr(key))
}
