package mutation

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tessera-data/sdk/verify"
)

// Observer carries the engine's observability hooks: a structured logger,
// an optional tracer and optional metric instruments. A nil *Observer is
// valid and does nothing, so executors call it unguarded.
type Observer struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observerMetrics
}

// observerMetrics holds the metric instruments, created once in NewObserver
// and reused for every operation.
type observerMetrics struct {
	// mutations counts write executions by operation, entity type and status.
	mutations metric.Int64Counter

	// verifications counts verification passes by outcome.
	verifications metric.Int64Counter

	// verifyDuration records comparison duration in milliseconds.
	verifyDuration metric.Float64Histogram
}

// NewObserver builds an Observer from the given signals. Any argument may be
// nil; the corresponding signal is skipped.
func NewObserver(logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*Observer, error) {
	o := &Observer{logger: logger, tracer: tracer}
	if meter == nil {
		return o, nil
	}

	m := &observerMetrics{}
	var err error

	m.mutations, err = meter.Int64Counter(
		"tessera.mutations",
		metric.WithDescription("Number of mutating operations executed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create mutations counter: %w", err)
	}

	m.verifications, err = meter.Int64Counter(
		"tessera.verifications",
		metric.WithDescription("Number of post-write verifications by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create verifications counter: %w", err)
	}

	m.verifyDuration, err = meter.Float64Histogram(
		"tessera.verification.duration",
		metric.WithDescription("Verification comparison duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create verification duration histogram: %w", err)
	}

	o.metrics = m
	return o, nil
}

// writeRejected records a write the backend refused.
func (o *Observer) writeRejected(ctx context.Context, operation, entityType string, err error) {
	if o == nil {
		return
	}
	if o.logger != nil {
		o.logger.Warn("write rejected",
			"operation", operation,
			"entity_type", entityType,
			"error", err)
	}
	if o.metrics != nil && o.metrics.mutations != nil {
		o.metrics.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("entity_type", entityType),
			attribute.String("status", "rejected"),
		))
	}
}

// writeExecuted records an accepted write.
func (o *Observer) writeExecuted(ctx context.Context, op verify.OpContext, entities int) {
	if o == nil {
		return
	}
	if o.logger != nil {
		o.logger.Debug("write executed",
			"operation", op.Operation,
			"entity_type", op.EntityType,
			"entity_id", op.EntityID,
			"entities", entities)
	}
	if o.metrics != nil && o.metrics.mutations != nil {
		o.metrics.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op.Operation),
			attribute.String("entity_type", op.EntityType),
			attribute.String("status", "ok"),
		))
	}
}

// verificationDone records the outcome of one verification pass: a log line,
// a span with the evidence summary, and the counters.
func (o *Observer) verificationDone(ctx context.Context, op verify.OpContext, result verify.Result) {
	if o == nil {
		return
	}
	failed := len(result.FailedChecks())

	if o.logger != nil {
		if result.Passed {
			o.logger.Debug("verification passed",
				"operation", op.Operation,
				"entity_type", op.EntityType,
				"entity_id", op.EntityID,
				"checks", len(result.Checks),
				"duration_ms", result.Duration.Milliseconds())
		} else {
			o.logger.Warn("verification failed",
				"operation", op.Operation,
				"entity_type", op.EntityType,
				"entity_id", op.EntityID,
				"checks", len(result.Checks),
				"failed_checks", failed,
				"error", result.Error)
		}
	}

	if o.tracer != nil {
		_, span := o.tracer.Start(ctx, "mutation.verify")
		span.SetAttributes(
			attribute.String("operation", op.Operation),
			attribute.String("entity_type", op.EntityType),
			attribute.String("entity_id", op.EntityID),
			attribute.Int("checks", len(result.Checks)),
			attribute.Int("failed_checks", failed),
			attribute.Float64("duration_ms", float64(result.Duration.Milliseconds())),
		)
		if result.Passed {
			span.SetStatus(codes.Ok, "verified")
		} else {
			span.SetStatus(codes.Error, fmt.Sprintf("%d check(s) failed", failed))
		}
		if result.Error != "" {
			span.RecordError(fmt.Errorf("%s", result.Error))
		}
		span.End()
	}

	if o.metrics != nil {
		status := "passed"
		if !result.Passed {
			status = "failed"
		}
		attrs := metric.WithAttributes(
			attribute.String("operation", op.Operation),
			attribute.String("entity_type", op.EntityType),
			attribute.String("status", status),
		)
		if o.metrics.verifications != nil {
			o.metrics.verifications.Add(ctx, 1, attrs)
		}
		if o.metrics.verifyDuration != nil {
			o.metrics.verifyDuration.Record(ctx, float64(result.Duration.Milliseconds()), attrs)
		}
	}
}
