package provider

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mbakhodurov/week1/payment/pkg/provider"

// Metric names.
const (
	MetricCalls          = "payments.provider.calls"
	MetricDuration       = "payments.provider.duration"
	MetricIntentsCreated = "payments.intent.created"
	MetricIntentsFailed  = "payments.intent.failed"
)

// Span and metric attribute keys.
const (
	AttrProvider    = attribute.Key("payment.provider")
	AttrOperation   = attribute.Key("payment.operation")
	AttrOutcome     = attribute.Key("payment.outcome")
	AttrOrderRef    = attribute.Key("payment.order_ref")
	AttrProviderRef = attribute.Key("payment.provider_ref")
	AttrFailureCode = attribute.Key("payment.failure_code")
)

type telemetry struct {
	tracer         trace.Tracer
	calls          metric.Int64Counter
	duration       metric.Float64Histogram
	intentsCreated metric.Int64Counter
	intentsFailed  metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	if t.calls, err = meter.Int64Counter(MetricCalls, metric.WithDescription("Payment provider calls by outcome")); err != nil {
		otel.Handle(err)
	}
	if t.duration, err = meter.Float64Histogram(MetricDuration, metric.WithUnit("s"), metric.WithDescription("Payment provider call latency")); err != nil {
		otel.Handle(err)
	}
	if t.intentsCreated, err = meter.Int64Counter(MetricIntentsCreated, metric.WithDescription("Payment authorizations created")); err != nil {
		otel.Handle(err)
	}
	if t.intentsFailed, err = meter.Int64Counter(MetricIntentsFailed, metric.WithDescription("Payment authorization failures")); err != nil {
		otel.Handle(err)
	}
	return t
}

// start opens a client span for one provider call. The returned func ends it
// and records the call's outcome.
func (t *telemetry) start(ctx context.Context, providerName, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, AttrProvider.String(providerName), AttrOperation.String(op))
	ctx, span := t.tracer.Start(ctx, "provider."+op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
	began := time.Now()

	return ctx, func(err error) {
		defer span.End()
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if f, ok := AsFailure(err); ok {
				outcome = f.Kind.String()
				span.SetAttributes(AttrFailureCode.String(f.Code))
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(AttrOutcome.String(outcome))

		set := metric.WithAttributes(AttrProvider.String(providerName), AttrOperation.String(op), AttrOutcome.String(outcome))
		t.calls.Add(ctx, 1, set)
		t.duration.Record(ctx, time.Since(began).Seconds(), set)
		if op == opAuthorize {
			byProvider := metric.WithAttributes(AttrProvider.String(providerName))
			if err != nil {
				t.intentsFailed.Add(ctx, 1, byProvider)
			} else {
				t.intentsCreated.Add(ctx, 1, byProvider)
			}
		}
	}
}

const (
	opAuthorize = "create_authorization"
	opCapture   = "capture"
	opRefund    = "refund"
)
