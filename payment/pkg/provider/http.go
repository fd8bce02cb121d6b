package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPConfig configures an HTTP processor client.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

type httpClient struct {
	provider string
	base     string
	apiKey   string
	client   *http.Client
}

func newHTTPClient(provider string, cfg HTTPConfig) httpClient {
	c := cfg.Client
	if c == nil {
		c = &http.Client{}
	}
	return httpClient{
		provider: provider,
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		client:   c,
	}
}

// errorDecoder turns a non-2xx response into a *Failure.
type errorDecoder func(status int, body []byte) *Failure

func (h httpClient) post(ctx context.Context, path string, headers map[string]string, in, out any, decodeErr errorDecoder) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Failure{Kind: Invalid, Provider: h.provider, Code: "REQUEST_ENCODING", Message: "could not encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base+path, body)
	if err != nil {
		return unavailable(h.provider, "PROVIDER_MISCONFIGURED", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return unavailable(h.provider, "PROVIDER_UNREACHABLE", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return unavailable(h.provider, "PROVIDER_UNREACHABLE", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return unavailable(h.provider, "PROVIDER_HTTP_"+fmt.Sprint(resp.StatusCode), fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return unavailable(h.provider, "PROVIDER_MISCONFIGURED", fmt.Errorf("status %d", resp.StatusCode))
		}
		return decodeErr(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return unavailable(h.provider, "PROVIDER_BAD_RESPONSE", err)
		}
	}
	return nil
}
