package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// CardProcessor talks to a payment-intent style card API: an intent is
// created with manual capture, confirmed by the client using its client
// secret, then captured by us.
type CardProcessor struct {
	http httpClient
}

var _ Adapter = (*CardProcessor)(nil)

func NewCardProcessor(cfg HTTPConfig) *CardProcessor {
	return &CardProcessor{http: newHTTPClient(Card, cfg)}
}

func (c *CardProcessor) Name() string { return Card }

type cardIntentRequest struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	CaptureMethod string            `json:"capture_method"`
	Metadata      map[string]string `json:"metadata"`
}

type cardIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

type cardRefundRequest struct {
	PaymentIntent string `json:"payment_intent"`
}

type cardError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CardProcessor) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	if req.SimulateFailure {
		return nil, simulated(Card, "CARD", "")
	}
	var out cardIntent
	err := c.http.post(ctx, "/v1/payment_intents",
		map[string]string{"Idempotency-Key": req.IdempotencyKey},
		cardIntentRequest{
			Amount:        MinorUnits(req.Amount),
			Currency:      strings.ToLower(req.Currency),
			CaptureMethod: "manual",
			Metadata:      map[string]string{"order_id": req.OrderRef},
		}, &out, c.decodeError)
	if err != nil {
		return nil, err
	}
	return &Authorization{Provider: Card, ProviderRef: out.ID, ClientToken: out.ClientSecret, Status: out.Status}, nil
}

func (c *CardProcessor) Capture(ctx context.Context, req CaptureRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(Card, "CARD", "CAPTURE")
	}
	var out cardIntent
	err := c.http.post(ctx, "/v1/payment_intents/"+url.PathEscape(req.ProviderRef)+"/capture",
		map[string]string{"Idempotency-Key": req.IdempotencyKey}, nil, &out, c.decodeError)
	if err != nil {
		return nil, err
	}
	return &Result{Provider: Card, ProviderRef: out.ID, Status: out.Status}, nil
}

func (c *CardProcessor) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(Card, "CARD", "REFUND")
	}
	var out cardIntent
	err := c.http.post(ctx, "/v1/refunds",
		map[string]string{"Idempotency-Key": req.IdempotencyKey},
		cardRefundRequest{PaymentIntent: req.ProviderRef}, &out, c.decodeError)
	if err != nil {
		return nil, err
	}
	return &Result{Provider: Card, ProviderRef: req.ProviderRef, Status: out.Status}, nil
}

func (c *CardProcessor) decodeError(status int, body []byte) *Failure {
	var e cardError
	_ = json.Unmarshal(body, &e)
	f := &Failure{Kind: Invalid, Provider: Card, Code: strings.ToUpper(e.Error.Code), Message: e.Error.Message}
	if status == http.StatusPaymentRequired || e.Error.Type == "card_error" {
		f.Kind = Declined
	}
	if f.Code == "" {
		f.Code = "CARD_REQUEST_REJECTED"
	}
	if f.Message == "" {
		f.Message = http.StatusText(status)
	}
	return f
}
