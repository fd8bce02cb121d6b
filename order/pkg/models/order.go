package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
	StatusFailed     OrderStatus = "Failed"
)

// transitions lists the valid predecessors of each status.
var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusPending},
	StatusCompleted:  {StatusPending, StatusProcessing},
	StatusFailed:     {StatusPending, StatusProcessing},
	StatusCancelled:  {StatusPending, StatusProcessing, StatusFailed},
}

// Predecessors returns the statuses an order may move to `to` from.
func Predecessors(to OrderStatus) []OrderStatus {
	return transitions[to]
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// HoldsStock reports whether an order in s still owns its reserved stock.
func (s OrderStatus) HoldsStock() bool {
	return s == StatusPending || s == StatusProcessing
}

func ParseStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled, StatusFailed:
		return st, true
	}
	return "", false
}

type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name,omitempty"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Pictures  []string        `json:"pictures,omitempty"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Total sums the subtotals of items.
func Total(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

type EventType string

const (
	EventCreated              EventType = "created"
	EventIdempotentReuse      EventType = "idempotent_reuse"
	EventPaymentIntentCreated EventType = "payment_intent_created"
	EventPaymentAttemptFailed EventType = "payment_attempt_failed"
	EventPaymentSucceeded     EventType = "payment_succeeded"
	EventPaymentFailed        EventType = "payment_failed"
	EventPaymentCaptured      EventType = "payment_captured"
	EventCaptureFailed        EventType = "capture_failed"
	EventPaymentRefunded      EventType = "payment_refunded"
	EventRefundFailed         EventType = "refund_failed"
	EventStatusChanged        EventType = "status_changed"
	EventStockReleased        EventType = "stock_released"
)

type TimelineEvent struct {
	Type EventType      `json:"type"`
	At   time.Time      `json:"ts"`
	Meta map[string]any `json:"meta,omitempty"`
}

func NewEvent(t EventType, at time.Time, meta map[string]any) TimelineEvent {
	return TimelineEvent{Type: t, At: at.UTC(), Meta: meta}
}

// PaymentRef is the provider-side authorization backing an order.
type PaymentRef struct {
	Provider    string `json:"provider,omitempty"`
	ProviderRef string `json:"providerRef,omitempty"`
	ClientToken string `json:"-"`
}

type Order struct {
	OrderUUID      string          `json:"order_uuid"`
	UserUUID       string          `json:"user_uuid"`
	Items          []LineItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	Status         OrderStatus     `json:"status"`
	IdempotencyKey string          `json:"-"`
	Payment        PaymentRef      `json:"payment"`
	Timeline       []TimelineEvent `json:"timeline"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HasEvent reports whether the timeline contains an event of type t.
func (o *Order) HasEvent(t EventType) bool {
	for _, e := range o.Timeline {
		if e.Type == t {
			return true
		}
	}
	return false
}
