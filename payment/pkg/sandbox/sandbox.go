// Package sandbox emulates the card and wallet processors over HTTP so the
// order service can run end to end without real processor accounts.
package sandbox

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type payment struct {
	ID        string
	Secret    string
	Amount    string
	Currency  string
	OrderRef  string
	Status    string
	CreatedAt time.Time
}

// PaymentService keeps emulated payments in memory.
type PaymentService struct {
	mu       sync.RWMutex
	payments map[string]*payment
	// idempotency key -> payment id
	keys map[string]string

	apiKey string
	log    *slog.Logger

	// Delay is applied before every response; used to exercise client timeouts.
	Delay time.Duration
}

func New(apiKey string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		payments: make(map[string]*payment),
		keys:     make(map[string]string),
		apiKey:   apiKey,
		log:      log,
	}
}

func (p *PaymentService) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(p.delay)
	r.Use(p.authorize)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/payment_intents", p.createIntent)
		r.Post("/payment_intents/{id}/capture", p.captureIntent)
		r.Post("/refunds", p.refundIntent)
	})
	r.Route("/v2/checkout/orders", func(r chi.Router) {
		r.Post("/", p.createWalletOrder)
		r.Post("/{id}/capture", p.captureWalletOrder)
		r.Post("/{id}/refund", p.refundWalletOrder)
	})
	return r
}

func (p *PaymentService) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.Delay > 0 {
			select {
			case <-time.After(p.Delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (p *PaymentService) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+p.apiKey {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]any{"error": map[string]string{"type": "authentication_error", "message": "invalid api key"}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type intentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

func (p *PaymentService) createIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		cardError(w, r, http.StatusBadRequest, "invalid_request_error", "parameter_invalid", "amount must be a positive integer")
		return
	}
	if req.Amount == declineAmountCents {
		cardError(w, r, http.StatusPaymentRequired, "card_error", "card_declined", "your card was declined")
		return
	}
	amount := jsonNumber(req.Amount)

	pay, conflict := p.create("card:"+r.Header.Get("Idempotency-Key"), r.Header.Get("Idempotency-Key") != "", amount, req.Currency, req.Metadata["order_id"], "pi_")
	if conflict {
		cardError(w, r, http.StatusBadRequest, "idempotency_error", "idempotency_key_in_use", "keys for idempotent requests can only be used with the same parameters")
		return
	}
	render.JSON(w, r, map[string]any{"id": pay.ID, "client_secret": pay.Secret, "status": pay.Status})
}

func (p *PaymentService) captureIntent(w http.ResponseWriter, r *http.Request) {
	pay, ok := p.transition(chi.URLParam(r, "id"), "succeeded")
	if !ok {
		cardError(w, r, http.StatusNotFound, "invalid_request_error", "resource_missing", "no such payment_intent")
		return
	}
	render.JSON(w, r, map[string]any{"id": pay.ID, "status": pay.Status})
}

func (p *PaymentService) refundIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cardError(w, r, http.StatusBadRequest, "invalid_request_error", "parameter_invalid", "payment_intent is required")
		return
	}
	pay, ok := p.transition(req.PaymentIntent, "refunded")
	if !ok {
		cardError(w, r, http.StatusNotFound, "invalid_request_error", "resource_missing", "no such payment_intent")
		return
	}
	render.JSON(w, r, map[string]any{"id": "re_" + uuid.NewString(), "payment_intent": pay.ID, "status": "succeeded"})
}

type walletOrderRequest struct {
	Intent        string `json:"intent"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Amount      struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

func (p *PaymentService) createWalletOrder(w http.ResponseWriter, r *http.Request) {
	var req walletOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.PurchaseUnits) != 1 {
		walletError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "exactly one purchase unit is required")
		return
	}
	unit := req.PurchaseUnits[0]
	key := r.Header.Get("PayPal-Request-Id")
	pay, conflict := p.create("wallet:"+key, key != "", unit.Amount.Value, unit.Amount.CurrencyCode, unit.ReferenceID, "WL-")
	if conflict {
		walletError(w, r, http.StatusUnprocessableEntity, "DUPLICATE_REQUEST_ID", "request id reused with a different payload")
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"id":     pay.ID,
		"status": "CREATED",
		"links": []map[string]string{
			{"rel": "approve", "href": "https://sandbox.wallet.test/checkoutnow?token=" + pay.ID},
			{"rel": "self", "href": "/v2/checkout/orders/" + pay.ID},
		},
	})
}

func (p *PaymentService) captureWalletOrder(w http.ResponseWriter, r *http.Request) {
	pay, ok := p.transition(chi.URLParam(r, "id"), "COMPLETED")
	if !ok {
		walletError(w, r, http.StatusNotFound, "RESOURCE_NOT_FOUND", "order not found")
		return
	}
	render.JSON(w, r, map[string]any{"id": pay.ID, "status": pay.Status})
}

func (p *PaymentService) refundWalletOrder(w http.ResponseWriter, r *http.Request) {
	pay, ok := p.transition(chi.URLParam(r, "id"), "REFUNDED")
	if !ok {
		walletError(w, r, http.StatusNotFound, "RESOURCE_NOT_FOUND", "order not found")
		return
	}
	render.JSON(w, r, map[string]any{"id": pay.ID, "status": pay.Status})
}

// create returns the payment stored under key, or a new one. conflict is set
// when key was used before with a different amount.
func (p *PaymentService) create(key string, hasKey bool, amount, currency, orderRef, prefix string) (*payment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if hasKey {
		if id, ok := p.keys[key]; ok {
			prev := p.payments[id]
			return prev, prev.Amount != amount
		}
	}

	id := prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	pay := &payment{
		ID:        id,
		Secret:    id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Amount:    amount,
		Currency:  currency,
		OrderRef:  orderRef,
		Status:    "requires_capture",
		CreatedAt: time.Now(),
	}
	p.payments[id] = pay
	if hasKey {
		p.keys[key] = id
	}
	p.log.Info("payment created", "id", id, "order_ref", orderRef, "amount", amount)
	return pay, false
}

func (p *PaymentService) transition(id, status string) (payment, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pay, ok := p.payments[id]
	if !ok {
		return payment{}, false
	}
	pay.Status = status
	p.log.Info("payment updated", "id", id, "status", status)
	return *pay, true
}

// declineAmountCents makes the card emulation decline, like a test card number would.
const declineAmountCents = 40002

func jsonNumber(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func cardError(w http.ResponseWriter, r *http.Request, status int, typ, code, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": map[string]string{"type": typ, "code": code, "message": msg}})
}

func walletError(w http.ResponseWriter, r *http.Request, status int, name, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"name": name, "message": msg})
}
