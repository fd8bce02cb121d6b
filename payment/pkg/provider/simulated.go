package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sim is an in-process processor used for local runs and tests. It keeps the
// same idempotency contract as the real processors: a repeated key with the
// same amount returns the same authorization.
type Sim struct {
	name string

	mu       sync.Mutex
	byKey    map[string]simAuth
	captured map[string]bool
	refunded map[string]bool

	// Down makes every call fail as Unavailable.
	Down atomic.Bool

	authCalls    atomic.Int64
	captureCalls atomic.Int64
	refundCalls  atomic.Int64
}

type simAuth struct {
	auth   Authorization
	amount decimal.Decimal
}

var _ Adapter = (*Sim)(nil)

func NewSim(name string) *Sim {
	return &Sim{
		name:     name,
		byKey:    make(map[string]simAuth),
		captured: make(map[string]bool),
		refunded: make(map[string]bool),
	}
}

func (s *Sim) Name() string { return s.name }

func (s *Sim) prefix() string {
	return strings.ToUpper(strings.SplitN(s.name, "-", 2)[0])
}

func (s *Sim) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	if req.SimulateFailure {
		return nil, simulated(s.name, s.prefix(), "")
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.authCalls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.IdempotencyKey != "" {
		if prev, ok := s.byKey[req.IdempotencyKey]; ok {
			if !prev.amount.Equal(req.Amount) {
				return nil, &Failure{Kind: Invalid, Provider: s.name, Code: "IDEMPOTENCY_KEY_REUSED", Message: "idempotency key reused with a different amount"}
			}
			out := prev.auth
			return &out, nil
		}
	}

	ref := fmt.Sprintf("sim_%s", uuid.NewString())
	auth := Authorization{
		Provider:    s.name,
		ProviderRef: ref,
		ClientToken: ref + "_secret_" + uuid.NewString()[:8],
		Status:      "requires_capture",
	}
	if req.IdempotencyKey != "" {
		s.byKey[req.IdempotencyKey] = simAuth{auth: auth, amount: req.Amount}
	}
	return &auth, nil
}

func (s *Sim) Capture(ctx context.Context, req CaptureRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(s.name, s.prefix(), "CAPTURE")
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.captureCalls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured[req.ProviderRef] = true
	return &Result{Provider: s.name, ProviderRef: req.ProviderRef, Status: "succeeded"}, nil
}

func (s *Sim) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(s.name, s.prefix(), "REFUND")
	}
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	s.refundCalls.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.captured[req.ProviderRef] {
		return nil, &Failure{Kind: Invalid, Provider: s.name, Code: "NOT_CAPTURED", Message: "payment was never captured"}
	}
	s.refunded[req.ProviderRef] = true
	return &Result{Provider: s.name, ProviderRef: req.ProviderRef, Status: "refunded"}, nil
}

func (s *Sim) check(ctx context.Context) error {
	if s.Down.Load() {
		return unavailable(s.name, "PROVIDER_UNREACHABLE", fmt.Errorf("%s is down", s.name))
	}
	if err := ctx.Err(); err != nil {
		return unavailable(s.name, "PROVIDER_TIMEOUT", err)
	}
	return nil
}

func (s *Sim) AuthorizationCalls() int64 { return s.authCalls.Load() }
func (s *Sim) CaptureCalls() int64       { return s.captureCalls.Load() }
func (s *Sim) RefundCalls() int64        { return s.refundCalls.Load() }
