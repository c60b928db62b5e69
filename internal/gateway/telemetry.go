package gateway

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xenking/memcommerce-mcp/internal/gateway"

type telemetry struct {
	tracer   trace.Tracer
	records  metric.Int64Counter
	failures metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	meter := mp.Meter(instrumentationName)

	records, err := meter.Int64Counter("memcommerce.gateway.records",
		metric.WithDescription("Records returned by gateway operations"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "records counter")
	}
	failures, err := meter.Int64Counter("memcommerce.gateway.failures",
		metric.WithDescription("Failed gateway operations by error kind"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failures counter")
	}

	return &telemetry{
		tracer:   tp.Tracer(instrumentationName),
		records:  records,
		failures: failures,
	}, nil
}

// start opens the span for one operation. The returned func must be called
// exactly once with the number of records produced and the final error.
func (t *telemetry) start(ctx context.Context, entity, op string, batch int) (context.Context, func(n int, err error)) {
	ctx, span := t.tracer.Start(ctx, "gateway."+entity+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("memcommerce.entity", entity),
			attribute.Int("memcommerce.batch_size", batch),
		),
	)
	return ctx, func(n int, err error) {
		defer span.End()

		attrs := []attribute.KeyValue{
			attribute.String("entity", entity),
			attribute.String("op", op),
		}
		if err != nil {
			kind := Classify(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, string(kind))
			t.failures.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("kind", string(kind)))...))
			return
		}
		span.SetAttributes(attribute.Int("memcommerce.records", n))
		t.records.Add(ctx, int64(n), metric.WithAttributes(attrs...))
	}
}
