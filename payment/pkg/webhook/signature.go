package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Header carries the delivery signature on incoming webhooks.
const Header = "Webhook-Signature"

var (
	errMalformedHeader = errors.New("malformed signature header")
	errStaleTimestamp  = errors.New("signature timestamp outside tolerance")
	errNoMatch         = errors.New("no matching signature")
)

// Sign returns the header value for body signed at ts: "t=<unix>,v1=<hex>".
func Sign(secret string, ts time.Time, body []byte) string {
	t := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + t + ",v1=" + mac(secret, t, body)
}

func mac(secret, t string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(t))
	h.Write([]byte("."))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks header against body. Several v1 entries may be present
// while a secret is being rotated; any match passes.
func Verify(secret, header string, body []byte, now time.Time, tolerance time.Duration) error {
	var t string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			t = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if t == "" || len(sigs) == 0 {
		return errMalformedHeader
	}

	unix, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return errMalformedHeader
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return errStaleTimestamp
		}
	}

	want := []byte(mac(secret, t, body))
	for _, s := range sigs {
		if hmac.Equal(want, []byte(s)) {
			return nil
		}
	}
	return errNoMatch
}
