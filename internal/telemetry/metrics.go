package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"task-approvals/internal/errors"
)

// Attribute keys for store metrics.
var (
	AttrOperation = attribute.Key("operation")
	AttrOutcome   = attribute.Key("outcome")
)

// StoreMetrics records task store operations.
type StoreMetrics struct {
	operations metric.Int64Counter
	duration   metric.Float64Histogram
}

// NewStoreMetrics creates the store instruments on meter.
func NewStoreMetrics(meter metric.Meter) (*StoreMetrics, error) {
	operations, err := meter.Int64Counter("task_store_operations_total",
		metric.WithDescription("Task store operations by operation and outcome"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("task_store_operation_duration_seconds",
		metric.WithDescription("Task store operation latency in seconds"))
	if err != nil {
		return nil, err
	}
	return &StoreMetrics{operations: operations, duration: duration}, nil
}

// Record counts one operation and observes its duration. A nil receiver is a no-op.
func (m *StoreMetrics) Record(ctx context.Context, operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		AttrOperation.String(operation),
		AttrOutcome.String(errors.OutcomeOf(err).String()),
	))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		AttrOperation.String(operation),
	))
}
