// Package webhook verifies and applies asynchronous payment-provider
// callbacks. Deliveries are authenticated before the body is parsed and each
// provider event id is applied once; a delivery that dies mid-apply leaves a
// lease that expires and lets the provider's redelivery finish the job.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

type EventKind int

const (
	AuthorizationSucceeded EventKind = iota + 1
	AuthorizationFailed
)

func (k EventKind) String() string {
	switch k {
	case AuthorizationSucceeded:
		return "authorization_succeeded"
	case AuthorizationFailed:
		return "authorization_failed"
	default:
		return "unknown"
	}
}

// eventTypes maps each provider's event type strings to what they mean to us.
var eventTypes = map[string]map[string]EventKind{
	provider.Card: {
		"payment_intent.succeeded":      AuthorizationSucceeded,
		"payment_intent.payment_failed": AuthorizationFailed,
	},
	provider.Wallet: {
		"CHECKOUT.ORDER.APPROVED": AuthorizationSucceeded,
		"CHECKOUT.ORDER.DECLINED": AuthorizationFailed,
	},
}

// Event is a verified, translated provider callback.
type Event struct {
	ID             string
	Provider       string
	Type           string
	Kind           EventKind
	OrderID        string
	ProviderRef    string
	FailureCode    string
	FailureMessage string
}

type payload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ProviderRef    string `json:"provider_ref"`
		OrderID        string `json:"order_id"`
		FailureCode    string `json:"failure_code"`
		FailureMessage string `json:"failure_message"`
	} `json:"data"`
}

// Applier applies a payment event to the order it references.
type Applier interface {
	ApplyPaymentEvent(ctx context.Context, ev Event) error
}

// EventLog deduplicates deliveries. Claim takes a lease on an event id and
// reports false when the event was applied or is being applied. A lease that
// is never completed expires, so a delivery that dies between Claim and
// Complete is retried by the next redelivery. Release drops a lease early.
type EventLog interface {
	Claim(ctx context.Context, providerName, eventID, eventType string) (bool, error)
	Complete(ctx context.Context, providerName, eventID string) error
	Release(ctx context.Context, providerName, eventID string) error
}

type Outcome int

const (
	Ack Outcome = iota + 1
	Duplicate
	Unrecognized
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Duplicate:
		return "duplicate"
	case Unrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// DefaultTolerance bounds the age of a signed delivery.
const DefaultTolerance = 5 * time.Minute

type Ingestor struct {
	secrets   map[string]string
	applier   Applier
	events    EventLog
	log       *slog.Logger
	tolerance time.Duration
	now       func() time.Time
}

// NewIngestor builds an ingestor. secrets maps provider name to its signing
// secret; providers without a secret reject every delivery.
func NewIngestor(secrets map[string]string, applier Applier, events EventLog, log *slog.Logger) *Ingestor {
	return &Ingestor{
		secrets:   secrets,
		applier:   applier,
		events:    events,
		log:       log,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
}

// Handle verifies, translates and applies one delivery. A bad signature
// returns apperr.ErrSignatureInvalid and touches nothing.
func (in *Ingestor) Handle(ctx context.Context, providerName string, body []byte, signature string) (Outcome, error) {
	log := in.log.With("provider", providerName)

	secret := in.secrets[providerName]
	if secret == "" {
		log.WarnContext(ctx, "webhook rejected: no signing secret configured")
		return 0, apperr.ErrSignatureInvalid
	}
	if err := Verify(secret, signature, body, in.now(), in.tolerance); err != nil {
		log.WarnContext(ctx, "webhook rejected: bad signature", "err", err)
		return 0, apperr.ErrSignatureInvalid
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		log.WarnContext(ctx, "webhook body is not valid JSON", "err", err)
		return Unrecognized, nil
	}
	kind, ok := eventTypes[providerName][p.Type]
	if !ok || p.ID == "" || p.Data.OrderID == "" {
		log.InfoContext(ctx, "webhook ignored", "event_id", p.ID, "type", p.Type)
		return Unrecognized, nil
	}

	ev := Event{
		ID:             p.ID,
		Provider:       providerName,
		Type:           p.Type,
		Kind:           kind,
		OrderID:        p.Data.OrderID,
		ProviderRef:    p.Data.ProviderRef,
		FailureCode:    p.Data.FailureCode,
		FailureMessage: p.Data.FailureMessage,
	}
	log = log.With("event_id", ev.ID, "order_id", ev.OrderID, "kind", ev.Kind.String())

	claimed, err := in.events.Claim(ctx, providerName, ev.ID, ev.Type)
	if err != nil {
		return 0, err
	}
	if !claimed {
		log.InfoContext(ctx, "webhook duplicate delivery")
		return Duplicate, nil
	}

	if err := in.applier.ApplyPaymentEvent(ctx, ev); err != nil {
		if rerr := in.events.Release(context.WithoutCancel(ctx), providerName, ev.ID); rerr != nil {
			log.ErrorContext(ctx, "could not release webhook claim", "err", rerr)
		}
		if errors.Is(err, apperr.ErrOrderNotFound) {
			log.WarnContext(ctx, "webhook references unknown order")
			return Unrecognized, nil
		}
		log.ErrorContext(ctx, "webhook apply failed", "err", err)
		return 0, err
	}

	if err := in.events.Complete(context.WithoutCancel(ctx), providerName, ev.ID); err != nil {
		// The event is applied; an expired lease may let a redelivery apply it again.
		log.ErrorContext(ctx, "could not mark webhook applied", "err", err)
	}
	log.InfoContext(ctx, "webhook applied")
	return Ack, nil
}
