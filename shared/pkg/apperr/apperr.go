// Package apperr defines the error taxonomy shared by the order, payment and
// inventory services. Every error that crosses the HTTP boundary carries a
// stable machine-readable Code and a Kind that decides the status code.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindPolicy
	KindValidation
	KindProvider
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindPolicy:
		return "policy"
	case KindValidation:
		return "validation"
	case KindProvider:
		return "provider"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

type Code string

const (
	CodePaymentsDisabled    Code = "PAYMENTS_DISABLED"
	CodeProviderDisabled    Code = "PAYMENT_PROVIDER_DISABLED"
	CodeInvalidTotal        Code = "PAYMENT_INVALID_TOTAL"
	CodeCartEmpty           Code = "CART_EMPTY"
	CodeInvalidItem         Code = "INVALID_ITEM"
	CodeInsufficientStock   Code = "INSUFFICIENT_STOCK"
	CodeProviderUnavailable Code = "PAYMENT_PROVIDER_UNAVAILABLE"
	CodePaymentFailed       Code = "PAYMENT_FAILED"
	CodeUnknownProvider     Code = "UNKNOWN_PROVIDER"
	CodeOrderNotFound       Code = "ORDER_NOT_FOUND"
	CodeInvalidTransition   Code = "INVALID_TRANSITION"
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeSignatureInvalid    Code = "SIGNATURE_INVALID"
	CodeInternal            Code = "INTERNAL"
)

// Error is an externally visible failure. Err is kept for logs only and is
// never rendered to clients.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Fields  map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so sentinel-style comparisons work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(err error, kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

// With returns a copy of e carrying an extra field.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Fields = make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = v
	}
	cp.Fields[key] = value
	return &cp
}

// From extracts an *Error from err, falling back to an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, KindInternal, CodeInternal, "internal error")
}

func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

var (
	ErrPaymentsDisabled  = New(KindPolicy, CodePaymentsDisabled, "payments temporarily disabled by administrator")
	ErrProviderDisabled  = New(KindPolicy, CodeProviderDisabled, "payment provider disabled")
	ErrInvalidTotal      = New(KindValidation, CodeInvalidTotal, "invalid total amount")
	ErrCartEmpty         = New(KindValidation, CodeCartEmpty, "cart is empty")
	ErrUnknownProvider   = New(KindValidation, CodeUnknownProvider, "unknown provider")
	ErrOrderNotFound     = New(KindNotFound, CodeOrderNotFound, "order not found")
	ErrInvalidTransition = New(KindConflict, CodeInvalidTransition, "order status does not allow this operation")
	ErrSignatureInvalid  = New(KindUnauthorized, CodeSignatureInvalid, "webhook signature invalid")
	ErrForbidden         = New(KindForbidden, CodeForbidden, "insufficient role")
)
