package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/order/pkg/service"
	"github.com/mbakhodurov/week1/payment/pkg/capabilities"
	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/payment/pkg/webhook"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

const (
	headerIdempotencyKey   = "Idempotency-Key"
	headerSimulateFailure  = "X-Simulate-Payment-Failure"
	maxIdempotencyKeyBytes = 255
)

type Capabilities interface {
	Get(ctx context.Context) capabilities.Snapshot
	Update(ctx context.Context, actor string, u capabilities.Update) (capabilities.Snapshot, error)
	ToggleProvider(ctx context.Context, actor, name string) (capabilities.Snapshot, error)
}

type Webhooks interface {
	Handle(ctx context.Context, providerName string, body []byte, signature string) (webhook.Outcome, error)
}

type Options struct {
	JWTSecret       string
	RateRPS         float64
	RateBurst       int
	RequestTimeout  time.Duration
	Currency        string
	DefaultProvider string
}

type API struct {
	orders    *service.OrderService
	caps      Capabilities
	hooks     Webhooks
	log       *slog.Logger
	jwtSecret []byte
	limits    *limiters
	opts      Options
}

func New(orders *service.OrderService, caps Capabilities, hooks Webhooks, log *slog.Logger, opts Options) *API {
	a := &API{
		orders:    orders,
		caps:      caps,
		hooks:     hooks,
		log:       log,
		jwtSecret: []byte(opts.JWTSecret),
		opts:      opts,
	}
	if opts.RateRPS > 0 {
		a.limits = newLimiters(opts.RateRPS, opts.RateBurst)
	}
	return a
}

type configResponse struct {
	capabilities.Snapshot
	Currency        string `json:"currency"`
	DefaultProvider string `json:"defaultProvider"`
}

func (a *API) getConfig(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, configResponse{
		Snapshot:        a.caps.Get(r.Context()),
		Currency:        a.opts.Currency,
		DefaultProvider: a.opts.DefaultProvider,
	})
}

type capabilitiesRequest struct {
	Enabled   *bool           `json:"enabled"`
	TestMode  *bool           `json:"testMode"`
	Providers map[string]bool `json:"providers"`
}

func (a *API) updateCapabilities(w http.ResponseWriter, r *http.Request) {
	var req capabilitiesRequest
	if err := decodeJSON(r, capabilitiesSchema, &req, false); err != nil {
		writeError(w, r, a.log, err)
		return
	}
	actor, _ := actorFrom(r.Context())
	snap, err := a.caps.Update(r.Context(), actor.String(), capabilities.Update{
		Enabled:   req.Enabled,
		TestMode:  req.TestMode,
		Providers: req.Providers,
	})
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, snap)
}

func (a *API) toggleProvider(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	snap, err := a.caps.ToggleProvider(r.Context(), actor.String(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, snap)
}

type createOrderRequest struct {
	Items    []models.LineItem `json:"items"`
	Total    *decimal.Decimal  `json:"total"`
	Provider string            `json:"provider"`
}

type createOrderResponse struct {
	OrderUUID   string             `json:"order_uuid"`
	Status      models.OrderStatus `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	Currency    string             `json:"currency"`
	Provider    string             `json:"provider,omitempty"`
	ClientToken string             `json:"client_token,omitempty"`
	Reused      bool               `json:"reused"`
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, createOrderSchema, &req, true); err != nil {
		writeError(w, r, a.log, err)
		return
	}
	key := r.Header.Get(headerIdempotencyKey)
	if len(key) > maxIdempotencyKeyBytes || !printableASCII(key) {
		writeError(w, r, a.log, invalidRequest("Idempotency-Key must be printable ASCII of at most 255 bytes"))
		return
	}

	actor, _ := actorFrom(r.Context())
	res, err := a.orders.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		UserUUID:        actor.UserUUID,
		Items:           req.Items,
		Total:           req.Total,
		Provider:        req.Provider,
		IdempotencyKey:  key,
		SimulateFailure: simulateFailure(r),
	})
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}

	status := http.StatusCreated
	if res.Reused {
		status = http.StatusOK
	}
	render.Status(r, status)
	render.JSON(w, r, createOrderResponse{
		OrderUUID:   res.Order.OrderUUID,
		Status:      res.Order.Status,
		Total:       res.Order.Total,
		Currency:    res.Order.Currency,
		Provider:    res.Order.Payment.Provider,
		ClientToken: res.ClientToken,
		Reused:      res.Reused,
	})
}

func (a *API) captureOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	o, err := a.orders.CaptureOrder(r.Context(), actor, chi.URLParam(r, "id"), simulateFailure(r))
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, o)
}

func (a *API) refundOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	o, err := a.orders.RefundOrder(r.Context(), actor, chi.URLParam(r, "id"), simulateFailure(r))
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, o)
}

type responseOrder struct {
	TotalCount int64           `json:"totalCount"`
	Orders     []*models.Order `json:"orders"`
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	orders, err := a.orders.ListOrders(r.Context(), actor.UserUUID)
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	render.JSON(w, r, responseOrder{TotalCount: int64(len(orders)), Orders: orders})
}

func (a *API) listAllOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	orders, err := a.orders.ListAllOrders(r.Context(), actor)
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	render.JSON(w, r, responseOrder{TotalCount: int64(len(orders)), Orders: orders})
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	o, err := a.orders.GetOrder(r.Context(), actor, chi.URLParam(r, "order_uuid"))
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, o)
}

func (a *API) cancelOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFrom(r.Context())
	o, err := a.orders.CancelOrder(r.Context(), actor, chi.URLParam(r, "order_uuid"))
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (a *API) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, statusSchema, &req, false); err != nil {
		writeError(w, r, a.log, err)
		return
	}
	to, ok := models.ParseStatus(req.Status)
	if !ok {
		writeError(w, r, a.log, invalidRequest("unknown status"))
		return
	}
	actor, _ := actorFrom(r.Context())
	o, err := a.orders.UpdateStatus(r.Context(), actor, chi.URLParam(r, "order_uuid"), to)
	if err != nil {
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, o)
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

func (a *API) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	if !slices.Contains(provider.Names(), name) {
		writeError(w, r, a.log, apperr.New(apperr.KindNotFound, apperr.CodeUnknownProvider, "unknown provider"))
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, a.log, invalidRequest("could not read request body"))
		return
	}

	out, err := a.hooks.Handle(r.Context(), name, body, r.Header.Get(webhook.Header))
	if err != nil {
		// Non-2xx makes the provider redeliver.
		writeError(w, r, a.log, err)
		return
	}
	render.JSON(w, r, webhookResponse{Received: true, Outcome: out.String()})
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func simulateFailure(r *http.Request) bool {
	switch r.Header.Get(headerSimulateFailure) {
	case "1", "true":
		return true
	}
	return false
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
