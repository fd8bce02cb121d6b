// Package service coordinates order placement, payment and fulfilment across
// the capability registry, stock reservation, the order repository and the
// payment providers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/order/pkg/cache"
	"github.com/mbakhodurov/week1/order/pkg/cart"
	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
)

// CapabilityReader returns the current capability snapshot.
type CapabilityReader interface {
	Get(ctx context.Context) capabilities.Snapshot
}

// Providers resolves a provider name to its adapter. Unknown names resolve to
// an adapter that always fails as unavailable.
type Providers interface {
	Get(name string) provider.Adapter
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserUUID string
	Admin    bool
}

func (a Actor) String() string {
	if a.Admin {
		return "admin:" + a.UserUUID
	}
	return "user:" + a.UserUUID
}

func (a Actor) canSee(o *models.Order) bool {
	return a.Admin || o.UserUUID == a.UserUUID
}

type Deps struct {
	Repo         models.Storage
	Stock        stock.Reserver
	Carts        cart.Reader
	Capabilities CapabilityReader
	Providers    Providers
	Cache        cache.OrderCache
	Audit        *logging.Auditor
	Log          *slog.Logger
}

type Config struct {
	Currency        string
	DefaultProvider string
	CacheTTL        time.Duration
}

type OrderService struct {
	repo      models.Storage
	stock     stock.Reserver
	carts     cart.Reader
	caps      CapabilityReader
	providers Providers
	cache     cache.OrderCache
	audit     *logging.Auditor
	log       *slog.Logger
	cfg       Config
	now       func() time.Time
}

func New(d Deps, cfg Config) *OrderService {
	if d.Carts == nil {
		d.Carts = cart.None{}
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = provider.Card
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &OrderService{
		repo:      d.Repo,
		stock:     d.Stock,
		carts:     d.Carts,
		caps:      d.Capabilities,
		providers: d.Providers,
		cache:     d.Cache,
		audit:     d.Audit,
		log:       d.Log,
		cfg:       cfg,
		now:       time.Now,
	}
}

type PlaceOrderRequest struct {
	UserUUID string
	// Items overrides the stored cart when non-empty.
	Items []models.LineItem
	// Total, when set, must equal the sum of the item subtotals.
	Total           *decimal.Decimal
	Provider        string
	IdempotencyKey  string
	SimulateFailure bool
}

type PlaceOrderResult struct {
	Order       *models.Order
	ClientToken string
	Reused      bool
}

// PlaceOrder turns the caller's cart (or explicit items) into a Pending order
// with reserved stock and a provider authorization. A repeated idempotency key
// resolves to the order it first created.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = s.cfg.DefaultProvider
	}
	snap := s.caps.Get(ctx)
	if err := capabilities.Check(snap, providerName); err != nil {
		return nil, err
	}
	simulate := req.SimulateFailure && snap.TestMode

	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return nil, err
	}
	total := models.Total(items)
	if req.Total != nil && !req.Total.Equal(total) {
		return nil, apperr.ErrInvalidTotal.With("expected", total.StringFixed(2))
	}
	if !total.IsPositive() {
		return nil, apperr.ErrInvalidTotal
	}

	if req.IdempotencyKey != "" {
		existing, err := s.repo.GetOrderByIdempotencyKey(ctx, req.UserUUID, req.IdempotencyKey)
		switch {
		case err == nil:
			return s.reuse(ctx, existing, providerName, simulate)
		case !errors.Is(err, apperr.ErrOrderNotFound):
			return nil, err
		}
	}

	lines := stockLines(items)
	if err := s.stock.Reserve(ctx, lines); err != nil {
		var ise *stock.InsufficientStockError
		if errors.As(err, &ise) {
			return nil, ise.AsAppError()
		}
		return nil, fmt.Errorf("reserve stock: %w", err)
	}

	now := s.now().UTC()
	order := &models.Order{
		OrderUUID:      uuid.NewString(),
		UserUUID:       req.UserUUID,
		Items:          items,
		Total:          total,
		Currency:       s.cfg.Currency,
		Status:         models.StatusPending,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	order.Timeline = []models.TimelineEvent{models.NewEvent(models.EventCreated, now, map[string]any{
		"total":    total.StringFixed(2),
		"currency": order.Currency,
		"items":    len(items),
	})}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		s.releaseLines(ctx, lines)
		if !errors.Is(err, models.ErrDuplicateIdempotencyKey) {
			return nil, fmt.Errorf("create order: %w", err)
		}
		// Lost the race for this key: the winner owns the reservation.
		existing, err := s.repo.GetOrderByIdempotencyKey(ctx, req.UserUUID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		return s.reuse(ctx, existing, providerName, simulate)
	}
	s.log.InfoContext(ctx, "order created", "order_uuid", order.OrderUUID, "user_uuid", order.UserUUID, "total", total.String())

	return s.authorize(ctx, order, providerName, simulate)
}

func (s *OrderService) resolveItems(ctx context.Context, req PlaceOrderRequest) ([]models.LineItem, error) {
	items := req.Items
	if len(items) == 0 {
		c, err := s.carts.GetCart(ctx, req.UserUUID)
		if err != nil {
			return nil, fmt.Errorf("read cart: %w", err)
		}
		if c.Empty() {
			return nil, apperr.ErrCartEmpty
		}
		items = c.Items
	}
	for i, it := range items {
		switch {
		case it.ProductID == "":
			return nil, invalidItem(i, "productId is required")
		case it.Quantity < 1:
			return nil, invalidItem(i, "quantity must be at least 1")
		case it.Price.IsNegative():
			return nil, invalidItem(i, "price must not be negative")
		}
	}
	return items, nil
}

func invalidItem(idx int, msg string) error {
	return apperr.New(apperr.KindValidation, apperr.CodeInvalidItem, msg).With("index", idx)
}

// reuse answers a repeated request with the order the key is bound to. A
// Pending order whose authorization never succeeded resumes that step.
func (s *OrderService) reuse(ctx context.Context, o *models.Order, providerName string, simulate bool) (*PlaceOrderResult, error) {
	ev := models.NewEvent(models.EventIdempotentReuse, s.now(), map[string]any{"idempotency_key": o.IdempotencyKey})
	if err := s.repo.AppendEvent(ctx, o.OrderUUID, ev); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, o.OrderUUID)
	s.log.InfoContext(ctx, "idempotent order reuse", "order_uuid", o.OrderUUID, "status", o.Status)

	if o.Payment.ProviderRef == "" && o.Status == models.StatusPending {
		res, err := s.authorize(ctx, o, providerName, simulate)
		if res != nil {
			res.Reused = true
		}
		return res, err
	}

	fresh, err := s.repo.GetOrderByUUID(ctx, o.OrderUUID)
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: fresh, ClientToken: fresh.Payment.ClientToken, Reused: true}, nil
}

// authorize creates the provider authorization for a Pending order. On failure
// the attempt is recorded and the order stays Pending with its stock held.
func (s *OrderService) authorize(ctx context.Context, o *models.Order, providerName string, simulate bool) (*PlaceOrderResult, error) {
	adapter := s.providers.Get(providerName)
	auth, err := adapter.CreateAuthorization(ctx, provider.AuthorizationRequest{
		Amount:          o.Total,
		Currency:        o.Currency,
		OrderRef:        o.OrderUUID,
		IdempotencyKey:  "order-" + o.OrderUUID,
		SimulateFailure: simulate,
	})
	if err != nil {
		s.recordFailure(ctx, o.OrderUUID, models.EventPaymentAttemptFailed, providerName, err)
		return nil, paymentError(err, o.OrderUUID)
	}

	ref := models.PaymentRef{Provider: auth.Provider, ProviderRef: auth.ProviderRef, ClientToken: auth.ClientToken}
	ev := models.NewEvent(models.EventPaymentIntentCreated, s.now(), map[string]any{
		"provider":     auth.Provider,
		"provider_ref": auth.ProviderRef,
		"amount":       o.Total.StringFixed(2),
	})
	if err := s.repo.SetPayment(ctx, o.OrderUUID, ref, ev); err != nil {
		return nil, fmt.Errorf("record authorization: %w", err)
	}
	s.cache.Invalidate(ctx, o.OrderUUID)

	fresh, err := s.repo.GetOrderByUUID(ctx, o.OrderUUID)
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: fresh, ClientToken: auth.ClientToken}, nil
}

// CaptureOrder captures the authorization of an order and completes it.
// Capturing a Completed order succeeds without calling the provider.
func (s *OrderService) CaptureOrder(ctx context.Context, actor Actor, uuid string, simulateFailure bool) (*models.Order, error) {
	o, err := s.load(ctx, actor, uuid)
	if err != nil {
		return nil, err
	}
	if o.Status == models.StatusCompleted {
		return o, nil
	}
	if !models.CanTransition(o.Status, models.StatusCompleted) {
		return nil, apperr.ErrInvalidTransition.With("status", string(o.Status))
	}
	if o.Payment.ProviderRef == "" {
		return nil, apperr.New(apperr.KindConflict, apperr.CodeInvalidTransition, "order has no payment authorization to capture")
	}

	snap := s.caps.Get(ctx)
	if err := capabilities.Check(snap, o.Payment.Provider); err != nil {
		return nil, err
	}

	res, err := s.providers.Get(o.Payment.Provider).Capture(ctx, provider.CaptureRequest{
		ProviderRef:     o.Payment.ProviderRef,
		IdempotencyKey:  "capture-" + o.OrderUUID,
		SimulateFailure: simulateFailure && snap.TestMode,
	})
	if err != nil {
		s.recordFailure(ctx, o.OrderUUID, models.EventCaptureFailed, o.Payment.Provider, err)
		return nil, paymentError(err, o.OrderUUID)
	}

	captured := models.NewEvent(models.EventPaymentCaptured, s.now(), map[string]any{
		"provider":     res.Provider,
		"provider_ref": res.ProviderRef,
		"status":       res.Status,
	})
	done, err := s.moveFresh(ctx, o, models.StatusCompleted, actor.String(), captured)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidTransition) {
			s.recordCaptureConflict(ctx, o.OrderUUID, captured, err)
		}
		return nil, err
	}
	o = done

	if err := s.carts.ClearCart(ctx, o.UserUUID); err != nil {
		s.log.WarnContext(ctx, "cart not cleared after capture", "user_uuid", o.UserUUID, "err", err)
	}
	return o, nil
}

// RefundOrder refunds a Completed order once. The order stays Completed.
func (s *OrderService) RefundOrder(ctx context.Context, actor Actor, uuid string, simulateFailure bool) (*models.Order, error) {
	o, err := s.load(ctx, actor, uuid)
	if err != nil {
		return nil, err
	}
	if o.Status != models.StatusCompleted {
		return nil, apperr.ErrInvalidTransition.With("status", string(o.Status))
	}
	if o.HasEvent(models.EventPaymentRefunded) {
		return o, nil
	}
	if o.Payment.ProviderRef == "" {
		return nil, apperr.New(apperr.KindConflict, apperr.CodeInvalidTransition, "order has no captured payment to refund")
	}

	snap := s.caps.Get(ctx)
	if err := capabilities.Check(snap, o.Payment.Provider); err != nil {
		return nil, err
	}
	res, err := s.providers.Get(o.Payment.Provider).Refund(ctx, provider.RefundRequest{
		ProviderRef:     o.Payment.ProviderRef,
		IdempotencyKey:  "refund-" + o.OrderUUID,
		SimulateFailure: simulateFailure && snap.TestMode,
	})
	if err != nil {
		s.recordFailure(ctx, o.OrderUUID, models.EventRefundFailed, o.Payment.Provider, err)
		return nil, paymentError(err, o.OrderUUID)
	}

	ev := models.NewEvent(models.EventPaymentRefunded, s.now(), map[string]any{
		"provider":     res.Provider,
		"provider_ref": res.ProviderRef,
		"status":       res.Status,
		"actor":        actor.String(),
	})
	if err := s.repo.AppendEvent(ctx, o.OrderUUID, ev); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, o.OrderUUID)
	s.audit.Event(ctx, "order.refund", actor.String(), "order_uuid", o.OrderUUID)
	return s.repo.GetOrderByUUID(ctx, o.OrderUUID)
}

// CancelOrder cancels a non-terminal order and returns its stock.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, uuid string) (*models.Order, error) {
	o, err := s.load(ctx, actor, uuid)
	if err != nil {
		return nil, err
	}
	return s.moveFresh(ctx, o, models.StatusCancelled, actor.String())
}

// UpdateStatus moves an order along the state machine on an admin's behalf.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, uuid string, to models.OrderStatus) (*models.Order, error) {
	o, err := s.load(ctx, actor, uuid)
	if err != nil {
		return nil, err
	}
	return s.moveFresh(ctx, o, to, actor.String())
}

// GetOrder reads through the detail cache.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, uuid string) (*models.Order, error) {
	if o, ok := s.cache.Get(ctx, uuid); ok {
		if !actor.canSee(o) {
			return nil, apperr.ErrOrderNotFound
		}
		return o, nil
	}
	o, err := s.load(ctx, actor, uuid)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, uuid, o, s.cfg.CacheTTL)
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userUUID string) ([]*models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userUUID)
}

// ListAllOrders returns every user's orders, newest first. Admins only.
func (s *OrderService) ListAllOrders(ctx context.Context, actor Actor) ([]*models.Order, error) {
	if !actor.Admin {
		return nil, apperr.ErrForbidden
	}
	return s.repo.ListOrders(ctx)
}

// load fetches an order the actor may act on. Other users' orders are
// reported as missing.
func (s *OrderService) load(ctx context.Context, actor Actor, uuid string) (*models.Order, error) {
	o, err := s.repo.GetOrderByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if !actor.canSee(o) {
		return nil, apperr.ErrOrderNotFound
	}
	return o, nil
}

// move transitions o from its observed status to `to`. Leaving a
// stock-holding status for Failed or Cancelled releases the reservation; the
// conditional update guarantees only one caller does so.
func (s *OrderService) move(ctx context.Context, o *models.Order, to models.OrderStatus, actor string, evs ...models.TimelineEvent) error {
	from := o.Status
	if !models.CanTransition(from, to) {
		return apperr.ErrInvalidTransition.With("status", string(from))
	}
	evs = append(evs, models.NewEvent(models.EventStatusChanged, s.now(), map[string]any{
		"from":  string(from),
		"to":    string(to),
		"actor": actor,
	}))
	if err := s.repo.Transition(ctx, o.OrderUUID, []models.OrderStatus{from}, to, evs...); err != nil {
		return err
	}
	s.audit.Event(ctx, "order.status_changed", actor, "order_uuid", o.OrderUUID, "from", string(from), "to", string(to))

	if from.HoldsStock() && (to == models.StatusFailed || to == models.StatusCancelled) {
		s.releaseOrderStock(ctx, o)
	}
	s.cache.Invalidate(ctx, o.OrderUUID)
	return nil
}

const maxTransitionAttempts = 3

// moveFresh retries move against the latest stored status when a concurrent
// writer changed it first, and returns the order as stored afterwards.
func (s *OrderService) moveFresh(ctx context.Context, o *models.Order, to models.OrderStatus, actor string, evs ...models.TimelineEvent) (*models.Order, error) {
	var err error
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		if to == models.StatusCompleted && o.Status == models.StatusCompleted {
			return o, nil
		}
		err = s.move(ctx, o, to, actor, evs...)
		if err == nil {
			return s.repo.GetOrderByUUID(ctx, o.OrderUUID)
		}
		if !errors.Is(err, apperr.ErrInvalidTransition) {
			return nil, err
		}
		fresh, lerr := s.repo.GetOrderByUUID(ctx, o.OrderUUID)
		if lerr != nil {
			return nil, lerr
		}
		if fresh.Status == o.Status {
			return nil, err
		}
		o = fresh
	}
	return nil, err
}

// recordCaptureConflict keeps a capture the provider accepted on the timeline
// after the order left its capturable status mid-call, e.g. a failure webhook
// moved it to Failed. The money is taken; someone has to reconcile by hand.
func (s *OrderService) recordCaptureConflict(ctx context.Context, orderUUID string, captured models.TimelineEvent, cause error) {
	ctx = context.WithoutCancel(ctx)
	meta := make(map[string]any, len(captured.Meta)+1)
	for k, v := range captured.Meta {
		meta[k] = v
	}
	meta["conflict"] = true
	s.log.ErrorContext(ctx, "payment captured but order could not complete", "order_uuid", orderUUID,
		"provider_ref", meta["provider_ref"], "err", cause)

	if err := s.repo.AppendEvent(ctx, orderUUID, models.NewEvent(models.EventPaymentCaptured, captured.At, meta)); err != nil {
		s.log.ErrorContext(ctx, "could not record conflicting capture", "order_uuid", orderUUID, "err", err)
	}
	s.audit.Event(ctx, "order.capture_conflict", "system", "order_uuid", orderUUID)
	s.cache.Invalidate(ctx, orderUUID)
}

func (s *OrderService) releaseOrderStock(ctx context.Context, o *models.Order) {
	lines := stockLines(o.Items)
	ctx = context.WithoutCancel(ctx)
	if err := s.stock.Release(ctx, lines); err != nil {
		s.log.ErrorContext(ctx, "stock release failed", "order_uuid", o.OrderUUID, "err", err)
		return
	}
	ev := models.NewEvent(models.EventStockReleased, s.now(), map[string]any{"lines": len(lines)})
	if err := s.repo.AppendEvent(ctx, o.OrderUUID, ev); err != nil {
		s.log.ErrorContext(ctx, "could not record stock release", "order_uuid", o.OrderUUID, "err", err)
	}
}

func (s *OrderService) releaseLines(ctx context.Context, lines []stock.Line) {
	if err := s.stock.Release(context.WithoutCancel(ctx), lines); err != nil {
		s.log.ErrorContext(ctx, "stock release failed", "err", err)
	}
}

func (s *OrderService) recordFailure(ctx context.Context, uuid string, typ models.EventType, providerName string, cause error) {
	meta := map[string]any{"provider": providerName, "code": "PROVIDER_ERROR"}
	if f, ok := provider.AsFailure(cause); ok {
		meta["code"] = f.Code
		meta["kind"] = f.Kind.String()
	}
	s.log.WarnContext(ctx, "payment provider call failed", "order_uuid", uuid, "event", string(typ), "err", cause)

	if err := s.repo.AppendEvent(context.WithoutCancel(ctx), uuid, models.NewEvent(typ, s.now(), meta)); err != nil {
		s.log.ErrorContext(ctx, "could not record provider failure", "order_uuid", uuid, "err", err)
	}
	s.cache.Invalidate(ctx, uuid)
}

// paymentError maps a provider failure onto the shared taxonomy. Timeouts and
// unreachable processors are unavailable, never a failed payment.
func paymentError(err error, orderUUID string) error {
	code, msg := apperr.CodePaymentFailed, "payment failed"
	providerCode := "PROVIDER_ERROR"
	f, ok := provider.AsFailure(err)
	if !ok || f.Kind == provider.Unavailable {
		code, msg = apperr.CodeProviderUnavailable, "payment provider unavailable"
	}
	if ok {
		providerCode = f.Code
	}
	return apperr.Wrap(err, apperr.KindProvider, code, msg).
		With("provider_code", providerCode).
		With("order_uuid", orderUUID)
}

func stockLines(items []models.LineItem) []stock.Line {
	lines := make([]stock.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, stock.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
