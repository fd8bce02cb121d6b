// Package provider adapts external payment processors to one interface:
// create an authorization, capture it, refund it. Every failure is returned
// as a *Failure so callers can branch on its Kind.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Provider names as used in capabilities, routes and webhook paths.
const (
	Card   = "card-processor"
	Wallet = "wallet-processor"
)

// Names lists every provider this build knows about.
func Names() []string { return []string{Card, Wallet} }

type AuthorizationRequest struct {
	Amount         decimal.Decimal
	Currency       string
	OrderRef       string
	IdempotencyKey string
	// SimulateFailure forces a deterministic failure without calling the processor.
	SimulateFailure bool
}

type Authorization struct {
	Provider    string `json:"provider"`
	ProviderRef string `json:"providerRef"`
	ClientToken string `json:"clientToken"`
	Status      string `json:"status"`
}

type CaptureRequest struct {
	ProviderRef     string
	IdempotencyKey  string
	SimulateFailure bool
}

type RefundRequest struct {
	ProviderRef     string
	IdempotencyKey  string
	SimulateFailure bool
}

type Result struct {
	Provider    string `json:"provider"`
	ProviderRef string `json:"providerRef"`
	Status      string `json:"status"`
}

// Adapter is one payment processor.
type Adapter interface {
	Name() string
	CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error)
	Capture(ctx context.Context, req CaptureRequest) (*Result, error)
	Refund(ctx context.Context, req RefundRequest) (*Result, error)
}

type FailureKind int

const (
	// Unavailable covers unreachable, misconfigured and timed out processors.
	Unavailable FailureKind = iota + 1
	// Declined is a definitive business refusal by the processor.
	Declined
	// Simulated is a failure forced through the test hook.
	Simulated
	// Invalid means the processor rejected the request itself.
	Invalid
)

func (k FailureKind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case Declined:
		return "declined"
	case Simulated:
		return "simulated"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

type Failure struct {
	Kind     FailureKind
	Provider string
	Code     string
	Message  string
	Err      error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s %s failure %s: %s", f.Provider, f.Kind, f.Code, f.Message)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func unavailable(provider, code string, err error) *Failure {
	return &Failure{Kind: Unavailable, Provider: provider, Code: code, Message: "payment provider unavailable", Err: err}
}

func simulated(provider, prefix, op string) *Failure {
	code := prefix + "_SIMULATED_FAILURE"
	if op != "" {
		code = prefix + "_" + op + "_SIMULATED_FAILURE"
	}
	return &Failure{Kind: Simulated, Provider: provider, Code: code, Message: "simulated " + provider + " failure"}
}
