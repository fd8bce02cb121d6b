package models

import (
	"context"
	"errors"
)

// ErrDuplicateIdempotencyKey is returned by Create when (user, key) is taken.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already bound to an order")

// Storage persists orders and their timelines. Timeline events are only
// ever appended. Not-found lookups return apperr.ErrOrderNotFound.
type Storage interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrderByUUID(ctx context.Context, uuid string) (*Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, userUUID, key string) (*Order, error)
	ListOrdersByUser(ctx context.Context, userUUID string) ([]*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)

	AppendEvent(ctx context.Context, uuid string, ev TimelineEvent) error
	SetPayment(ctx context.Context, uuid string, p PaymentRef, ev TimelineEvent) error

	// Transition moves the order to `to` only if its current status is one of
	// from, appending evs in the same transaction. It returns
	// apperr.ErrInvalidTransition when the status did not match.
	Transition(ctx context.Context, uuid string, from []OrderStatus, to OrderStatus, evs ...TimelineEvent) error
}
