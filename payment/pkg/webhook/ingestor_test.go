package webhook

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakhodurov/week1/payment/pkg/provider"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
	"github.com/mbakhodurov/week1/shared/pkg/logging"
)

const secret = "whsec_test"

type recordingApplier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (a *recordingApplier) ApplyPaymentEvent(_ context.Context, ev Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, ev)
	return nil
}

type memoryLog struct {
	mu      sync.Mutex
	claimed map[string]bool
	applied map[string]bool
}

func newMemoryLog() *memoryLog {
	return &memoryLog{claimed: map[string]bool{}, applied: map[string]bool{}}
}

func (m *memoryLog) Claim(_ context.Context, p, id, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed[p+"/"+id] {
		return false, nil
	}
	m.claimed[p+"/"+id] = true
	return true, nil
}

func (m *memoryLog) Complete(_ context.Context, p, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied[p+"/"+id] = true
	return nil
}

func (m *memoryLog) Release(_ context.Context, p, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claimed, p+"/"+id)
	return nil
}

func (m *memoryLog) isApplied(p, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied[p+"/"+id]
}

func newIngestor() (*Ingestor, *recordingApplier) {
	in, a, _ := newIngestorWithLog()
	return in, a
}

func newIngestorWithLog() (*Ingestor, *recordingApplier, *memoryLog) {
	a := &recordingApplier{}
	events := newMemoryLog()
	in := NewIngestor(map[string]string{provider.Card: secret}, a, events, logging.Discard())
	return in, a, events
}

const succeeded = `{"id":"evt_1","type":"payment_intent.succeeded","data":{"provider_ref":"pi_1","order_id":"order-1"}}`

func TestValidDeliveryIsApplied(t *testing.T) {
	in, a := newIngestor()
	body := []byte(succeeded)

	out, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))

	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	require.Len(t, a.events, 1)
	assert.Equal(t, AuthorizationSucceeded, a.events[0].Kind)
	assert.Equal(t, "order-1", a.events[0].OrderID)
	assert.Equal(t, "pi_1", a.events[0].ProviderRef)
}

func TestInvalidSignatureHasNoSideEffects(t *testing.T) {
	in, a := newIngestor()
	body := []byte(succeeded)

	cases := map[string]string{
		"wrong secret": Sign("other", time.Now(), body),
		"tampered":     Sign(secret, time.Now(), []byte(`{"id":"evt_2"}`)),
		"stale":        Sign(secret, time.Now().Add(-time.Hour), body),
		"empty":        "",
		"garbage":      "t=abc,v1=zz",
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := in.Handle(context.Background(), provider.Card, body, sig)
			assert.ErrorIs(t, err, apperr.ErrSignatureInvalid)
		})
	}
	assert.Empty(t, a.events)
}

func TestProviderWithoutSecretIsRejected(t *testing.T) {
	in, a := newIngestor()
	body := []byte(`{"id":"e","type":"CHECKOUT.ORDER.APPROVED","data":{"order_id":"o"}}`)

	_, err := in.Handle(context.Background(), provider.Wallet, body, Sign(secret, time.Now(), body))

	assert.ErrorIs(t, err, apperr.ErrSignatureInvalid)
	assert.Empty(t, a.events)
}

func TestDuplicateDeliveryIsNoop(t *testing.T) {
	in, a := newIngestor()
	body := []byte(succeeded)

	first, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.NoError(t, err)
	second, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.NoError(t, err)

	assert.Equal(t, Ack, first)
	assert.Equal(t, Duplicate, second)
	assert.Len(t, a.events, 1)
}

func TestUnrecognizedEvents(t *testing.T) {
	in, a := newIngestor()
	for _, body := range []string{
		`{"id":"evt_3","type":"charge.dispute.created","data":{"order_id":"o"}}`,
		`{"id":"evt_4","type":"payment_intent.succeeded","data":{}}`,
		`not json`,
	} {
		out, err := in.Handle(context.Background(), provider.Card, []byte(body), Sign(secret, time.Now(), []byte(body)))
		require.NoError(t, err)
		assert.Equal(t, Unrecognized, out, body)
	}
	assert.Empty(t, a.events)
}

func TestFailedApplyReleasesClaim(t *testing.T) {
	in, a := newIngestor()
	body := []byte(`{"id":"evt_5","type":"payment_intent.payment_failed","data":{"order_id":"o","failure_code":"card_declined"}}`)
	a.err = errors.New("db down")

	_, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.Error(t, err)

	a.err = nil
	out, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	require.Len(t, a.events, 1)
	assert.Equal(t, AuthorizationFailed, a.events[0].Kind)
	assert.Equal(t, "card_declined", a.events[0].FailureCode)
}

func TestClaimCompletesOnlyAfterApply(t *testing.T) {
	in, a, events := newIngestorWithLog()
	body := []byte(succeeded)

	a.err = errors.New("db down")
	_, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.Error(t, err)
	assert.False(t, events.isApplied(provider.Card, "evt_1"))

	a.err = nil
	out, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))
	require.NoError(t, err)
	assert.Equal(t, Ack, out)
	assert.True(t, events.isApplied(provider.Card, "evt_1"))
}

func TestUnknownOrderIsUnrecognized(t *testing.T) {
	in, a := newIngestor()
	a.err = apperr.ErrOrderNotFound
	body := []byte(succeeded)

	out, err := in.Handle(context.Background(), provider.Card, body, Sign(secret, time.Now(), body))

	require.NoError(t, err)
	assert.Equal(t, Unrecognized, out)
}

func TestVerifyAcceptsRotatedSignatures(t *testing.T) {
	body := []byte("x")
	now := time.Now()
	good := Sign(secret, now, body)
	header := good + ",v1=deadbeef"

	assert.NoError(t, Verify(secret, header, body, now, time.Minute))
}
