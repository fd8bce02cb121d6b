package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	"github.com/mbakhodurov/week1/order/pkg/cache"
	"github.com/mbakhodurov/week1/order/pkg/cart"
	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/order/pkg/service"
	"github.com/mbakhodurov/week1/order/pkg/storage"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/payment/pkg/webhook"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

const (
	jwtSecret     = "test_jwt_secret"
	webhookSecret = "whsec_test"
)

type testServer struct {
	srv   *httptest.Server
	stock *stock.SQLStore
	card  *provider.Sim
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := sqlitedb.Open(ctx, sqlitedb.Memory("api-"+uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo, err := storage.NewStorage(ctx, db)
	require.NoError(t, err)
	st, err := stock.NewSQLStore(ctx, db)
	require.NoError(t, err)
	capStore, err := capabilities.NewSQLStore(ctx, db)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logging.Discard()
	audit := logging.NewAuditor(log)
	caps := capabilities.NewRegistry(capStore, provider.Names(), audit, log)
	card := provider.NewSim(provider.Card)

	orders := service.New(service.Deps{
		Repo:         repo,
		Stock:        st,
		Carts:        cart.NewRedisReader(rdb),
		Capabilities: caps,
		Providers:    provider.NewSet(time.Second, card, provider.NewSim(provider.Wallet)),
		Cache:        cache.NewRedis(rdb, log),
		Audit:        audit,
		Log:          log,
	}, service.Config{Currency: "usd", CacheTTL: time.Minute})
	hooks := webhook.NewIngestor(map[string]string{provider.Card: webhookSecret}, orders, repo, log)

	opts.JWTSecret = jwtSecret
	srv := httptest.NewServer(New(orders, caps, hooks, log, opts).Routes())
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, stock: st, card: card}
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	tok, err := IssueToken([]byte(jwtSecret), id, role)
	require.NoError(t, err)
	return tok
}

type call struct {
	method, path, token, body string
	headers                   map[string]string
}

func (ts *testServer) do(t *testing.T, c call) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(c.method, ts.srv.URL+c.path, bytes.NewBufferString(c.body))
	require.NoError(t, err)
	if c.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

const oneMug = `{"items":[{"productId":"p1","name":"Mug","quantity":2,"price":"12.34"}]}`

func TestConfigIsPublic(t *testing.T) {
	ts := newTestServer(t, Options{Currency: "usd", DefaultProvider: provider.Card})
	code, body := ts.do(t, call{method: http.MethodGet, path: "/payments/config"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["enabled"])
	assert.Equal(t, true, body["testMode"])
	assert.Equal(t, "usd", body["currency"])
	assert.Equal(t, map[string]any{"card-processor": true, "wallet-processor": true}, body["providers"])
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	ts := newTestServer(t, Options{})
	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", body: oneMug})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", body: oneMug, token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCreateOrderIdempotentOverHTTP(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 5))
	tok := token(t, "u1", "user")
	c := call{method: http.MethodPost, path: "/payments/create-order", token: tok, body: oneMug,
		headers: map[string]string{"Idempotency-Key": "K1"}}

	code, first := ts.do(t, c)
	require.Equal(t, http.StatusCreated, code, first)
	assert.Equal(t, "Pending", first["status"])
	assert.Equal(t, "24.68", first["total"])
	assert.NotEmpty(t, first["client_token"])

	code, second := ts.do(t, c)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first["order_uuid"], second["order_uuid"])
	assert.Equal(t, true, second["reused"])

	q, err := ts.stock.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), q)

	code, list := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders", token: tok})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), list["totalCount"])
}

func TestCreateOrderRejectsAmbiguousBodies(t *testing.T) {
	ts := newTestServer(t, Options{})
	tok := token(t, "u1", "user")

	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok,
		body: oneMug, headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok,
		body: `{"items":[],"coupon":"FREE"}`})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok,
		body: `{"items":[{"productId":"p1","quantity":0,"price":"1"}]}`})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CART_EMPTY", body["code"])
}

func TestInsufficientStockIsConflict(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 1))

	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order",
		token: token(t, "u1", "user"), body: oneMug})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestAdminCapabilities(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 50))
	user := token(t, "u1", "user")
	admin := token(t, "root", RoleAdmin)

	code, _ := ts.do(t, call{method: http.MethodPut, path: "/payments/admin/capabilities", token: user, body: `{"enabled":false}`})
	assert.Equal(t, http.StatusForbidden, code)

	code, snap := ts.do(t, call{method: http.MethodPut, path: "/payments/admin/capabilities", token: admin, body: `{"enabled":false,"providers":{"bitcoin":true}}`})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, snap["enabled"])
	assert.NotContains(t, snap["providers"], "bitcoin")

	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "PAYMENTS_DISABLED", body["code"])

	code, _ = ts.do(t, call{method: http.MethodPut, path: "/payments/admin/capabilities", token: admin, body: `{"enabled":true}`})
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/admin/provider/card-processor/toggle", token: admin})
	require.Equal(t, http.StatusOK, code)
	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "PAYMENT_PROVIDER_DISABLED", body["code"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/admin/provider/card-processor/toggle", token: admin})
	require.Equal(t, http.StatusOK, code)
	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	assert.Equal(t, http.StatusCreated, code)

	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/admin/provider/bitcoin/toggle", token: admin})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "UNKNOWN_PROVIDER", body["code"])
}

func TestCaptureAndLifecycleRoutes(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 5))
	user := token(t, "u1", "user")

	_, created := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	id := created["order_uuid"].(string)

	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/capture-order/" + id, token: token(t, "u2", "user")})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ORDER_NOT_FOUND", body["code"])

	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/capture-order/" + id, token: user})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Completed", body["status"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/capture-order/" + id, token: user})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), ts.card.CaptureCalls())

	code, body = ts.do(t, call{method: http.MethodPost, path: "/api/v1/orders/" + id + "/cancel", token: user})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/refund-order/" + id, token: user})
	assert.Equal(t, http.StatusForbidden, code)
	code, body = ts.do(t, call{method: http.MethodPost, path: "/payments/refund-order/" + id, token: token(t, "root", RoleAdmin)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Completed", body["status"])

	code, body = ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/" + id, token: user})
	require.Equal(t, http.StatusOK, code)
	timeline := body["timeline"].([]any)
	last := timeline[len(timeline)-1].(map[string]any)
	assert.Equal(t, string(models.EventPaymentRefunded), last["type"])
}

func TestAdminStatusUpdate(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 5))
	user := token(t, "u1", "user")
	admin := token(t, "root", RoleAdmin)

	_, created := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	id := created["order_uuid"].(string)

	code, _ := ts.do(t, call{method: http.MethodPut, path: "/api/v1/orders/admin/" + id + "/status", token: user, body: `{"status":"Failed"}`})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := ts.do(t, call{method: http.MethodPut, path: "/api/v1/orders/admin/" + id + "/status", token: admin, body: `{"status":"Shipped"}`})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", body["code"])

	code, body = ts.do(t, call{method: http.MethodPut, path: "/api/v1/orders/admin/" + id + "/status", token: admin, body: `{"status":"Failed"}`})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Failed", body["status"])

	q, err := ts.stock.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), q, "failing an order returns its stock")
}

func TestAdminListsAllOrders(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 5))
	for _, u := range []string{"u1", "u2"} {
		code, _ := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: token(t, u, "user"), body: oneMug})
		require.Equal(t, http.StatusCreated, code)
	}

	code, _ := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/admin", token: token(t, "u1", "user")})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/admin", token: token(t, "root", RoleAdmin)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["totalCount"])

	code, body = ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders", token: token(t, "u1", "user")})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["totalCount"])
}

func TestWebhookRoute(t *testing.T) {
	ts := newTestServer(t, Options{})
	require.NoError(t, ts.stock.Set(context.Background(), "p1", 5))
	user := token(t, "u1", "user")
	_, created := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: user, body: oneMug})
	id := created["order_uuid"].(string)

	_, before := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/" + id, token: user})
	require.Equal(t, "Pending", before["status"])

	payload := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"order_id":"` + id + `"}}`
	code, body := ts.do(t, call{method: http.MethodPost, path: "/card-processor/webhook", body: payload,
		headers: map[string]string{webhook.Header: "t=1,v1=00"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "SIGNATURE_INVALID", body["code"])

	_, after := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/" + id, token: user})
	assert.Equal(t, "Pending", after["status"], "a rejected delivery moves nothing")
	assert.Len(t, after["timeline"], len(before["timeline"].([]any)))

	sig := webhook.Sign(webhookSecret, time.Now(), []byte(payload))
	code, body = ts.do(t, call{method: http.MethodPost, path: "/card-processor/webhook", body: payload,
		headers: map[string]string{webhook.Header: sig}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ack", body["outcome"])

	code, body = ts.do(t, call{method: http.MethodPost, path: "/card-processor/webhook", body: payload,
		headers: map[string]string{webhook.Header: sig}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "duplicate", body["outcome"])

	_, order := ts.do(t, call{method: http.MethodGet, path: "/api/v1/orders/" + id, token: user})
	assert.Equal(t, "Processing", order["status"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/crypto/webhook", body: payload})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Options{RateRPS: 0.001, RateBurst: 1})
	tok := token(t, "u1", "user")

	code, _ := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: tok})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "RATE_LIMITED", body["code"])

	code, _ = ts.do(t, call{method: http.MethodPost, path: "/payments/create-order", token: token(t, "u2", "user")})
	assert.Equal(t, http.StatusBadRequest, code, "buckets are per user")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})
	code, body := ts.do(t, call{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
