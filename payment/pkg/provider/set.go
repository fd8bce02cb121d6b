package provider

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Set resolves adapters by name. It is built once at startup; a provider
// that was not configured resolves to an adapter that always reports
// Unavailable, so call sites never see a nil adapter.
type Set struct {
	adapters map[string]Adapter
}

// NewSet wraps every adapter so each call carries timeout and is traced and
// counted through the global otel providers.
func NewSet(timeout time.Duration, adapters ...Adapter) *Set {
	return NewInstrumentedSet(timeout, nil, nil, adapters...)
}

// NewInstrumentedSet is NewSet with explicit tracer and meter providers; nil
// falls back to the global ones.
func NewInstrumentedSet(timeout time.Duration, tp trace.TracerProvider, mp metric.MeterProvider, adapters ...Adapter) *Set {
	tel := newTelemetry(tp, mp)
	s := &Set{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		s.adapters[a.Name()] = &bounded{next: a, timeout: timeout, tel: tel}
	}
	return s
}

func (s *Set) Get(name string) Adapter {
	if a, ok := s.adapters[name]; ok {
		return a
	}
	return Unconfigured(name)
}

// bounded enforces a per-call deadline, maps timeouts to Unavailable and
// wraps each call in a span.
type bounded struct {
	next    Adapter
	timeout time.Duration
	tel     *telemetry
}

func (b *bounded) Name() string { return b.next.Name() }

func (b *bounded) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	ctx, end := b.tel.start(ctx, b.Name(), opAuthorize, AttrOrderRef.String(req.OrderRef))
	bctx, cancel := b.bound(ctx)
	defer cancel()
	out, err := b.next.CreateAuthorization(bctx, req)
	err = b.classify(bctx, err)
	end(err)
	return out, err
}

func (b *bounded) Capture(ctx context.Context, req CaptureRequest) (*Result, error) {
	ctx, end := b.tel.start(ctx, b.Name(), opCapture, AttrProviderRef.String(req.ProviderRef))
	bctx, cancel := b.bound(ctx)
	defer cancel()
	out, err := b.next.Capture(bctx, req)
	err = b.classify(bctx, err)
	end(err)
	return out, err
}

func (b *bounded) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	ctx, end := b.tel.start(ctx, b.Name(), opRefund, AttrProviderRef.String(req.ProviderRef))
	bctx, cancel := b.bound(ctx)
	defer cancel()
	out, err := b.next.Refund(bctx, req)
	err = b.classify(bctx, err)
	end(err)
	return out, err
}

func (b *bounded) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// classify maps a blown deadline to Unavailable/PROVIDER_TIMEOUT whatever
// the adapter reported, and wraps stray errors as Unavailable.
func (b *bounded) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable(b.Name(), "PROVIDER_TIMEOUT", err)
	}
	if f, ok := AsFailure(err); ok {
		return f
	}
	return unavailable(b.Name(), "PROVIDER_ERROR", err)
}

type unconfigured struct {
	name string
}

// Unconfigured returns an adapter for a provider with no credentials.
func Unconfigured(name string) Adapter { return unconfigured{name: name} }

func (u unconfigured) Name() string { return u.name }

func (u unconfigured) fail() *Failure {
	return &Failure{Kind: Unavailable, Provider: u.name, Code: "PROVIDER_NOT_CONFIGURED", Message: u.name + " is not configured"}
}

func (u unconfigured) CreateAuthorization(context.Context, AuthorizationRequest) (*Authorization, error) {
	return nil, u.fail()
}

func (u unconfigured) Capture(context.Context, CaptureRequest) (*Result, error) {
	return nil, u.fail()
}

func (u unconfigured) Refund(context.Context, RefundRequest) (*Result, error) {
	return nil, u.fail()
}
