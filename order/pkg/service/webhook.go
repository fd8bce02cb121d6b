package service

import (
	"context"
	"errors"

	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/payment/pkg/webhook"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

var _ webhook.Applier = (*OrderService)(nil)

// ApplyPaymentEvent mirrors a verified provider event into the order. Status
// changes are optimistic: an event that no longer fits the order's status is
// still recorded on the timeline but moves nothing.
func (s *OrderService) ApplyPaymentEvent(ctx context.Context, ev webhook.Event) error {
	o, err := s.repo.GetOrderByUUID(ctx, ev.OrderID)
	if err != nil {
		return err
	}
	actor := "webhook:" + ev.Provider
	meta := map[string]any{
		"provider":     ev.Provider,
		"provider_ref": ev.ProviderRef,
		"event_id":     ev.ID,
		"event_type":   ev.Type,
	}
	if o.Payment.ProviderRef != "" && ev.ProviderRef != "" && ev.ProviderRef != o.Payment.ProviderRef {
		s.log.WarnContext(ctx, "webhook provider ref does not match order", "order_uuid", o.OrderUUID,
			"expected", o.Payment.ProviderRef, "got", ev.ProviderRef)
		meta["ref_mismatch"] = true
	}

	var (
		typ models.EventType
		to  models.OrderStatus
	)
	switch ev.Kind {
	case webhook.AuthorizationSucceeded:
		typ, to = models.EventPaymentSucceeded, models.StatusProcessing
	case webhook.AuthorizationFailed:
		typ, to = models.EventPaymentFailed, models.StatusFailed
		meta["failure_code"] = ev.FailureCode
		meta["failure_message"] = ev.FailureMessage
	default:
		return nil
	}
	event := models.NewEvent(typ, s.now(), meta)

	if models.CanTransition(o.Status, to) {
		_, err := s.moveFresh(ctx, o, to, actor, event)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrInvalidTransition) {
			return err
		}
	}

	if err := s.repo.AppendEvent(ctx, o.OrderUUID, event); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, o.OrderUUID)
	return nil
}
