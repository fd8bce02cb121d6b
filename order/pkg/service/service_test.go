package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/order/pkg/cache"
	"github.com/mbakhodurov/week1/order/pkg/cart"
	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/order/pkg/storage"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/payment/pkg/webhook"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

type fixture struct {
	svc    *OrderService
	repo   *storage.Storage
	stock  *stock.SQLStore
	caps   *capabilities.Registry
	card   *provider.Sim
	wallet *provider.Sim
	mr     *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlitedb.Open(ctx, sqlitedb.Memory("svc-"+uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := storage.NewStorage(ctx, db)
	require.NoError(t, err)
	st, err := stock.NewSQLStore(ctx, db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logging.Discard()
	audit := logging.NewAuditor(log)
	caps := capabilities.NewRegistry(capabilities.NewRedisStore(rdb), provider.Names(), audit, log)
	card, wallet := provider.NewSim(provider.Card), provider.NewSim(provider.Wallet)

	svc := New(Deps{
		Repo:         repo,
		Stock:        st,
		Carts:        cart.NewRedisReader(rdb),
		Capabilities: caps,
		Providers:    provider.NewSet(time.Second, card, wallet),
		Cache:        cache.NewRedis(rdb, log),
		Audit:        audit,
		Log:          log,
	}, Config{Currency: "usd", CacheTTL: time.Minute})

	return &fixture{svc: svc, repo: repo, stock: st, caps: caps, card: card, wallet: wallet, mr: mr}
}

func (f *fixture) setStock(t *testing.T, product string, qty int64) {
	t.Helper()
	require.NoError(t, f.stock.Set(context.Background(), product, qty))
}

func (f *fixture) stockOf(t *testing.T, product string) int64 {
	t.Helper()
	q, err := f.stock.Get(context.Background(), product)
	require.NoError(t, err)
	return q
}

func (f *fixture) putCart(t *testing.T, user, body string) {
	t.Helper()
	require.NoError(t, f.mr.Set(cart.Key(user), body))
}

const mugCart = `{"items":[{"productId":"p1","name":"Mug","quantity":2,"price":"12.34"}],"total":"24.68"}`

func types(o *models.Order) []models.EventType {
	out := make([]models.EventType, 0, len(o.Timeline))
	for _, e := range o.Timeline {
		out = append(out, e.Type)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func item(product string, qty int64, price string) models.LineItem {
	return models.LineItem{ProductID: product, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestPlaceOrderFromCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	f.putCart(t, "u1", mugCart)

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1"})
	require.NoError(t, err)

	o := res.Order
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("24.68").Equal(o.Total))
	assert.Equal(t, []models.EventType{models.EventCreated, models.EventPaymentIntentCreated}, types(o))
	assert.NotEmpty(t, res.ClientToken)
	assert.Equal(t, provider.Card, o.Payment.Provider)
	assert.False(t, res.Reused)
	assert.Equal(t, int64(3), f.stockOf(t, "p1"))
}

func TestPlaceOrderIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	f.putCart(t, "u1", mugCart)

	req := PlaceOrderRequest{UserUUID: "u1", IdempotencyKey: "K1"}
	first, err := f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Order.OrderUUID, second.Order.OrderUUID)
	assert.Equal(t, first.ClientToken, second.ClientToken)
	assert.True(t, second.Reused)
	assert.Equal(t, int64(3), f.stockOf(t, "p1"), "stock decremented once")
	assert.Equal(t, int64(1), f.card.AuthorizationCalls(), "no second authorization")
	assert.Equal(t, []models.EventType{models.EventCreated, models.EventPaymentIntentCreated, models.EventIdempotentReuse}, types(second.Order))

	orders, err := f.svc.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 100)

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{
				UserUUID:       "u1",
				Items:          []models.LineItem{item("p1", 2, "12.34")},
				IdempotencyKey: "race",
			})
			errs[i] = err
			if err == nil {
				ids[i] = res.Order.OrderUUID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, int64(98), f.stockOf(t, "p1"))

	orders, err := f.svc.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderInsufficientStockIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	f.setStock(t, "p2", 1)

	_, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{
		UserUUID: "u1",
		Items:    []models.LineItem{item("p1", 1, "3.00"), item("p2", 2, "4.00")},
	})
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodeInsufficientStock, ae.Code)
	assert.Equal(t, "p2", ae.Fields["product_id"])

	assert.Equal(t, int64(5), f.stockOf(t, "p1"))
	assert.Equal(t, int64(1), f.stockOf(t, "p2"))
	orders, err := f.svc.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, f.card.AuthorizationCalls())
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)

	_, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1"})
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)

	wrong := decimal.RequireFromString("10.00")
	_, err = f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "3.00")}, Total: &wrong})
	assert.ErrorIs(t, err, apperr.ErrInvalidTotal)

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "0")}})
	assert.ErrorIs(t, err, apperr.ErrInvalidTotal)

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 0, "3.00")}})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidItem))

	_, err = f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "3.00")}, Provider: "barter"})
	assert.ErrorIs(t, err, apperr.ErrUnknownProvider)

	assert.Equal(t, int64(5), f.stockOf(t, "p1"))
}

func TestCaptureCompletesOnceAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	f.putCart(t, "u1", mugCart)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1"})
	require.NoError(t, err)

	o, err := f.svc.CaptureOrder(ctx, actor, res.Order.OrderUUID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, o.Status)
	assert.True(t, o.HasEvent(models.EventPaymentCaptured))
	assert.False(t, f.mr.Exists(cart.Key("u1")), "cart cleared")

	again, err := f.svc.CaptureOrder(ctx, actor, res.Order.OrderUUID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status)
	assert.Equal(t, int64(1), f.card.CaptureCalls(), "second capture must not reach the provider")
	assert.Equal(t, len(o.Timeline), len(again.Timeline))
}

func TestCaptureFailureKeepsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "5.00")}})
	require.NoError(t, err)

	_, err = f.svc.CaptureOrder(ctx, actor, res.Order.OrderUUID, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindProvider, apperr.From(err).Kind)

	o, err := f.svc.GetOrder(ctx, actor, res.Order.OrderUUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, o.HasEvent(models.EventCaptureFailed))

	_, err = f.svc.CaptureOrder(ctx, Actor{UserUUID: "u2"}, res.Order.OrderUUID, false)
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound, "other users cannot capture")
}

// captureRace runs during inside Capture, before the processor is called.
type captureRace struct {
	provider.Adapter
	during func(ctx context.Context)
}

func (c captureRace) Capture(ctx context.Context, req provider.CaptureRequest) (*provider.Result, error) {
	c.during(ctx)
	return c.Adapter.Capture(ctx, req)
}

type racingProviders struct {
	Providers
	name   string
	during func(ctx context.Context)
}

func (p racingProviders) Get(name string) provider.Adapter {
	a := p.Providers.Get(name)
	if name != p.name {
		return a
	}
	return captureRace{Adapter: a, during: p.during}
}

func TestCaptureKeepsMoneyTrailWhenFailureWebhookWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "5.00")}})
	require.NoError(t, err)
	id := res.Order.OrderUUID

	f.svc.providers = racingProviders{Providers: f.svc.providers, name: provider.Card, during: func(ctx context.Context) {
		ev := webhook.Event{ID: "evt_fail", Provider: provider.Card, Type: "payment_intent.payment_failed",
			Kind: webhook.AuthorizationFailed, OrderID: id, FailureCode: "card_declined"}
		require.NoError(t, f.svc.ApplyPaymentEvent(ctx, ev))
	}}

	_, err = f.svc.CaptureOrder(ctx, actor, id, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, int64(1), f.card.CaptureCalls())

	o, err := f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, o.Status)

	var captured *models.TimelineEvent
	for i := range o.Timeline {
		if o.Timeline[i].Type == models.EventPaymentCaptured {
			captured = &o.Timeline[i]
		}
	}
	require.NotNil(t, captured, "the capture is on the timeline")
	assert.Equal(t, true, captured.Meta["conflict"])
	assert.Equal(t, res.Order.Payment.ProviderRef, captured.Meta["provider_ref"])
	assert.False(t, f.mr.Exists(cache.Key(id)))
}

func TestCapabilityGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 50)
	req := PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "5.00")}}

	_, err := f.caps.Update(ctx, "admin", capabilities.Update{Enabled: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrPaymentsDisabled)
	_, err = f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1"})
	assert.ErrorIs(t, err, apperr.ErrPaymentsDisabled, "checked before the cart")

	_, err = f.caps.Update(ctx, "admin", capabilities.Update{Enabled: boolPtr(true)})
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)
}

func TestProviderToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 50)
	req := PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "5.00")}, Provider: provider.Card}

	_, err := f.caps.ToggleProvider(ctx, "admin", provider.Card)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrProviderDisabled)

	walletReq := req
	walletReq.Provider = provider.Wallet
	res, err := f.svc.PlaceOrder(ctx, walletReq)
	require.NoError(t, err)
	assert.Equal(t, provider.Wallet, res.Order.Payment.Provider)

	_, err = f.caps.ToggleProvider(ctx, "admin", provider.Card)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)
}

func TestProviderOutageLeavesOrderPendingAndResumes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	req := PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 2, "12.34")}, IdempotencyKey: "K1"}

	f.card.Down.Store(true)
	_, err := f.svc.PlaceOrder(ctx, req)
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodeProviderUnavailable, ae.Code)
	orderID, _ := ae.Fields["order_uuid"].(string)
	require.NotEmpty(t, orderID)

	o, err := f.repo.GetOrderByUUID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, o.HasEvent(models.EventPaymentAttemptFailed))
	assert.Equal(t, int64(3), f.stockOf(t, "p1"), "stock stays reserved")

	f.card.Down.Store(false)
	res, err := f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, orderID, res.Order.OrderUUID)
	assert.NotEmpty(t, res.ClientToken)
	assert.Equal(t, int64(3), f.stockOf(t, "p1"), "retry does not reserve again")
}

func TestSimulatedFailureNeedsTestMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	req := PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "5.00")}, SimulateFailure: true}

	_, err := f.svc.PlaceOrder(ctx, req)
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.CodePaymentFailed, ae.Code)
	assert.Equal(t, "CARD_SIMULATED_FAILURE", ae.Fields["provider_code"])

	_, err = f.caps.Update(ctx, "admin", capabilities.Update{TestMode: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, req)
	require.NoError(t, err)
}

func TestCancelReleasesStockOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 2, "1.00")}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.stockOf(t, "p1"))

	o, err := f.svc.CancelOrder(ctx, actor, res.Order.OrderUUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, o.Status)
	assert.Equal(t, int64(5), f.stockOf(t, "p1"))

	o, err = f.repo.GetOrderByUUID(ctx, res.Order.OrderUUID)
	require.NoError(t, err)
	assert.True(t, o.HasEvent(models.EventStockReleased))

	_, err = f.svc.CancelOrder(ctx, actor, res.Order.OrderUUID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, int64(5), f.stockOf(t, "p1"))
}

func TestCompletedOrderCannotBeCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "1.00")}})
	require.NoError(t, err)
	_, err = f.svc.CaptureOrder(ctx, actor, res.Order.OrderUUID, false)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, actor, res.Order.OrderUUID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = f.svc.UpdateStatus(ctx, Actor{UserUUID: "root", Admin: true}, res.Order.OrderUUID, models.StatusFailed)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, int64(4), f.stockOf(t, "p1"))
}

func TestRefund(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	admin := Actor{UserUUID: "root", Admin: true}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "9.99")}})
	require.NoError(t, err)

	_, err = f.svc.RefundOrder(ctx, admin, res.Order.OrderUUID, false)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "only completed orders refund")

	_, err = f.svc.CaptureOrder(ctx, admin, res.Order.OrderUUID, false)
	require.NoError(t, err)

	o, err := f.svc.RefundOrder(ctx, admin, res.Order.OrderUUID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, o.Status)
	assert.True(t, o.HasEvent(models.EventPaymentRefunded))

	_, err = f.svc.RefundOrder(ctx, admin, res.Order.OrderUUID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.card.RefundCalls())
}

func TestRefundChecksCapabilities(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	admin := Actor{UserUUID: "root", Admin: true}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "9.99")}})
	require.NoError(t, err)
	_, err = f.svc.CaptureOrder(ctx, admin, res.Order.OrderUUID, false)
	require.NoError(t, err)

	_, err = f.caps.ToggleProvider(ctx, "admin", provider.Card)
	require.NoError(t, err)
	_, err = f.svc.RefundOrder(ctx, admin, res.Order.OrderUUID, false)
	assert.ErrorIs(t, err, apperr.ErrProviderDisabled)

	_, err = f.caps.ToggleProvider(ctx, "admin", provider.Card)
	require.NoError(t, err)
	_, err = f.caps.Update(ctx, "admin", capabilities.Update{Enabled: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.svc.RefundOrder(ctx, admin, res.Order.OrderUUID, false)
	assert.ErrorIs(t, err, apperr.ErrPaymentsDisabled)

	assert.Zero(t, f.card.RefundCalls())
}

func TestRefundWithoutAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	admin := Actor{UserUUID: "root", Admin: true}

	f.card.Down.Store(true)
	_, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "9.99")}})
	require.Error(t, err)
	id, _ := apperr.From(err).Fields["order_uuid"].(string)
	require.NotEmpty(t, id)
	f.card.Down.Store(false)

	_, err = f.svc.UpdateStatus(ctx, admin, id, models.StatusCompleted)
	require.NoError(t, err)

	_, err = f.svc.RefundOrder(ctx, admin, id, false)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))
	assert.Zero(t, f.card.RefundCalls())

	o, err := f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.False(t, o.HasEvent(models.EventRefundFailed))
}

func TestListAllOrdersIsAdminOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)

	for _, user := range []string{"u1", "u2"} {
		_, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: user, Items: []models.LineItem{item("p1", 1, "1.00")}})
		require.NoError(t, err)
	}

	all, err := f.svc.ListAllOrders(ctx, Actor{UserUUID: "root", Admin: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.ListAllOrders(ctx, Actor{UserUUID: "u1"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestGetOrderReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)
	actor := Actor{UserUUID: "u1"}

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "1.00")}})
	require.NoError(t, err)
	id := res.Order.OrderUUID

	o, err := f.svc.GetOrder(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, f.mr.Exists(cache.Key(id)))

	_, err = f.svc.CaptureOrder(ctx, actor, id, false)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(cache.Key(id)), "capture invalidates")

	o, err = f.svc.GetOrder(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, o.Status)

	_, err = f.svc.GetOrder(ctx, Actor{UserUUID: "u2"}, id)
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
	_, err = f.svc.GetOrder(ctx, Actor{UserUUID: "root", Admin: true}, id)
	assert.NoError(t, err)
}

func TestApplyPaymentEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "1.00")}})
	require.NoError(t, err)
	id := res.Order.OrderUUID

	ok := webhook.Event{ID: "evt_1", Provider: provider.Card, Type: "payment_intent.succeeded",
		Kind: webhook.AuthorizationSucceeded, OrderID: id, ProviderRef: res.Order.Payment.ProviderRef}
	require.NoError(t, f.svc.ApplyPaymentEvent(ctx, ok))

	o, err := f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, o.Status)
	assert.True(t, o.HasEvent(models.EventPaymentSucceeded))

	_, err = f.svc.CaptureOrder(ctx, Actor{UserUUID: "u1"}, id, false)
	require.NoError(t, err)

	late := webhook.Event{ID: "evt_2", Provider: provider.Card, Type: "payment_intent.payment_failed",
		Kind: webhook.AuthorizationFailed, OrderID: id, FailureCode: "card_declined"}
	require.NoError(t, f.svc.ApplyPaymentEvent(ctx, late))

	o, err = f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, o.Status, "a stale failure never reverts a captured order")
	assert.True(t, o.HasEvent(models.EventPaymentFailed))
	assert.Equal(t, int64(4), f.stockOf(t, "p1"))

	err = f.svc.ApplyPaymentEvent(ctx, webhook.Event{ID: "evt_3", Kind: webhook.AuthorizationSucceeded, OrderID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
}

func TestPaymentFailedEventReleasesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 3, "1.00")}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.stockOf(t, "p1"))

	ev := webhook.Event{ID: "evt_1", Provider: provider.Card, Type: "payment_intent.payment_failed",
		Kind: webhook.AuthorizationFailed, OrderID: res.Order.OrderUUID, FailureCode: "card_declined"}
	require.NoError(t, f.svc.ApplyPaymentEvent(ctx, ev))

	o, err := f.repo.GetOrderByUUID(ctx, res.Order.OrderUUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, o.Status)
	assert.True(t, o.HasEvent(models.EventStockReleased))
	assert.Equal(t, int64(5), f.stockOf(t, "p1"))

	o, err = f.svc.CancelOrder(ctx, Actor{UserUUID: "u1"}, res.Order.OrderUUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, o.Status)
	assert.Equal(t, int64(5), f.stockOf(t, "p1"), "no second release")
}

func TestWebhookDuplicateDeliveryThroughIngestor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.setStock(t, "p1", 5)

	res, err := f.svc.PlaceOrder(ctx, PlaceOrderRequest{UserUUID: "u1", Items: []models.LineItem{item("p1", 1, "1.00")}})
	require.NoError(t, err)
	id := res.Order.OrderUUID

	const secret = "whsec_test"
	in := webhook.NewIngestor(map[string]string{provider.Card: secret}, f.svc, f.repo, logging.Discard())
	body := []byte(`{"id":"evt_9","type":"payment_intent.succeeded","data":{"order_id":"` + id + `","provider_ref":"` + res.Order.Payment.ProviderRef + `"}}`)
	sig := webhook.Sign(secret, time.Now(), body)

	out, err := in.Handle(ctx, provider.Card, body, sig)
	require.NoError(t, err)
	assert.Equal(t, webhook.Ack, out)
	after, err := f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)

	out, err = in.Handle(ctx, provider.Card, body, sig)
	require.NoError(t, err)
	assert.Equal(t, webhook.Duplicate, out)
	again, err := f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, after.Timeline, again.Timeline)

	_, err = in.Handle(ctx, provider.Card, body, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, apperr.ErrSignatureInvalid)
	again, err = f.repo.GetOrderByUUID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, after.Timeline, again.Timeline)
}
