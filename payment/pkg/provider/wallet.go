package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// WalletProcessor talks to a checkout-order style wallet API: the buyer
// approves the order on the wallet's site via the approve link, then we
// capture it.
type WalletProcessor struct {
	http httpClient
}

var _ Adapter = (*WalletProcessor)(nil)

func NewWalletProcessor(cfg HTTPConfig) *WalletProcessor {
	return &WalletProcessor{http: newHTTPClient(Wallet, cfg)}
}

func (w *WalletProcessor) Name() string { return Wallet }

type walletAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type walletPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	Amount      walletAmount `json:"amount"`
}

type walletOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []walletPurchaseUnit `json:"purchase_units"`
}

type walletLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type walletOrder struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []walletLink `json:"links"`
}

type walletError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (w *WalletProcessor) CreateAuthorization(ctx context.Context, req AuthorizationRequest) (*Authorization, error) {
	if req.SimulateFailure {
		return nil, simulated(Wallet, "WALLET", "")
	}
	var out walletOrder
	err := w.http.post(ctx, "/v2/checkout/orders",
		map[string]string{"PayPal-Request-Id": req.IdempotencyKey},
		walletOrderRequest{
			Intent: "AUTHORIZE",
			PurchaseUnits: []walletPurchaseUnit{{
				ReferenceID: req.OrderRef,
				Amount: walletAmount{
					CurrencyCode: strings.ToUpper(req.Currency),
					Value:        req.Amount.StringFixed(2),
				},
			}},
		}, &out, w.decodeError)
	if err != nil {
		return nil, err
	}

	token := out.ID
	for _, l := range out.Links {
		if l.Rel == "approve" {
			token = l.Href
			break
		}
	}
	return &Authorization{Provider: Wallet, ProviderRef: out.ID, ClientToken: token, Status: out.Status}, nil
}

func (w *WalletProcessor) Capture(ctx context.Context, req CaptureRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(Wallet, "WALLET", "CAPTURE")
	}
	var out walletOrder
	err := w.http.post(ctx, "/v2/checkout/orders/"+url.PathEscape(req.ProviderRef)+"/capture",
		map[string]string{"PayPal-Request-Id": req.IdempotencyKey}, nil, &out, w.decodeError)
	if err != nil {
		return nil, err
	}
	return &Result{Provider: Wallet, ProviderRef: out.ID, Status: out.Status}, nil
}

func (w *WalletProcessor) Refund(ctx context.Context, req RefundRequest) (*Result, error) {
	if req.SimulateFailure {
		return nil, simulated(Wallet, "WALLET", "REFUND")
	}
	var out walletOrder
	err := w.http.post(ctx, "/v2/checkout/orders/"+url.PathEscape(req.ProviderRef)+"/refund",
		map[string]string{"PayPal-Request-Id": req.IdempotencyKey}, nil, &out, w.decodeError)
	if err != nil {
		return nil, err
	}
	return &Result{Provider: Wallet, ProviderRef: out.ID, Status: out.Status}, nil
}

func (w *WalletProcessor) decodeError(status int, body []byte) *Failure {
	var e walletError
	_ = json.Unmarshal(body, &e)
	f := &Failure{Kind: Invalid, Provider: Wallet, Code: e.Name, Message: e.Message}
	if status == http.StatusUnprocessableEntity {
		f.Kind = Declined
	}
	if f.Code == "" {
		f.Code = "WALLET_REQUEST_REJECTED"
	}
	if f.Message == "" {
		f.Message = http.StatusText(status)
	}
	return f
}
