package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/sabaispa/sabai/internal/payment/adapters/stripe"
	"github.com/sabaispa/sabai/internal/payment/domain"
)

const testSecret = "whsec_test_secret"

func sign(t *testing.T, secret, timestamp string, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func newAdapter(t *testing.T) *stripe.Adapter {
	t.Helper()
	adapter, err := stripe.New(testSecret)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := stripe.New("   "); err == nil {
		t.Fatal("expected error for blank webhook secret")
	}
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"id":"evt_1"}`)

	header := fmt.Sprintf("t=1714000000,v1=%s", sign(t, testSecret, "1714000000", payload))
	if err := adapter.Verify(payload, header); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyAcceptsAnyMatchingV1Entry(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"id":"evt_1"}`)

	// Stripe sends multiple v1 entries during secret rotation.
	header := fmt.Sprintf("t=1714000000,v1=deadbeef,v1=%s", sign(t, testSecret, "1714000000", payload))
	if err := adapter.Verify(payload, header); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejectsBadSignatures(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"id":"evt_1"}`)
	good := sign(t, testSecret, "1714000000", payload)

	cases := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"missing timestamp", "v1=" + good},
		{"missing v1", "t=1714000000"},
		{"wrong secret", fmt.Sprintf("t=1714000000,v1=%s", sign(t, "whsec_other", "1714000000", payload))},
		{"tampered timestamp", "t=1714000001,v1=" + good},
		{"garbage", "not a signature header"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := adapter.Verify(payload, tc.header); !errors.Is(err, domain.ErrInvalidSignature) {
				t.Fatalf("expected invalid signature, got %v", err)
			}
		})
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	adapter := newAdapter(t)
	header := fmt.Sprintf("t=1714000000,v1=%s", sign(t, testSecret, "1714000000", []byte(`{"id":"evt_1"}`)))

	err := adapter.Verify([]byte(`{"id":"evt_2"}`), header)
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestParseCompletedSessionForOrder(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"id": "evt_100",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"payment_intent": "pi_100",
			"metadata": {"order_id": "9001"}
		}}
	}`)

	event, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.EventID != "evt_100" || event.Type != domain.EventSessionCompleted {
		t.Fatalf("unexpected event header: %+v", event)
	}
	if event.PaymentIntentID != "pi_100" || event.SessionID != "cs_test_1" {
		t.Fatalf("unexpected payment references: %+v", event)
	}
	if event.TargetKind != domain.TargetOrder || event.TargetID != "9001" {
		t.Fatalf("unexpected target: %+v", event)
	}
}

func TestParseExpiredSessionForBooking(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"id": "evt_101",
		"type": "checkout.session.expired",
		"data": {"object": {
			"id": "cs_test_2",
			"metadata": {"booking_id": "777"}
		}}
	}`)

	event, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != domain.EventSessionExpired {
		t.Fatalf("unexpected type: %v", event.Type)
	}
	if event.TargetKind != domain.TargetBooking || event.TargetID != "777" {
		t.Fatalf("unexpected target: %+v", event)
	}
}

func TestParsePaymentFailedCarriesReason(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"id": "evt_102",
		"type": "payment_intent.payment_failed",
		"data": {"object": {
			"id": "pi_102",
			"metadata": {"order_id": "9002"},
			"last_payment_error": {"message": "card_declined"}
		}}
	}`)

	event, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != domain.EventPaymentFailed || event.PaymentIntentID != "pi_102" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.FailureReason != "card_declined" {
		t.Fatalf("failure reason: got %q", event.FailureReason)
	}
}

func TestParseNumericMetadataID(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{
		"id": "evt_103",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_3",
			"metadata": {"booking_id": 1234567890}
		}}
	}`)

	event, err := adapter.Parse(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.TargetKind != domain.TargetBooking || event.TargetID != "1234567890" {
		t.Fatalf("numeric metadata not normalized: %+v", event)
	}
}

func TestParseUnsupportedEvent(t *testing.T) {
	adapter := newAdapter(t)
	payload := []byte(`{"id":"evt_104","type":"invoice.paid","data":{"object":{}}}`)

	if _, err := adapter.Parse(payload); !errors.Is(err, domain.ErrUnsupportedEvent) {
		t.Fatalf("expected unsupported event, got %v", err)
	}
}

func TestParseInvalidPayloads(t *testing.T) {
	adapter := newAdapter(t)

	cases := []struct {
		name    string
		payload string
	}{
		{"not json", "{"},
		{"missing id", `{"type":"checkout.session.completed","data":{"object":{}}}`},
		{"bad object", `{"id":"evt_105","type":"checkout.session.completed","data":{"object":"nope"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := adapter.Parse([]byte(tc.payload)); !errors.Is(err, domain.ErrInvalidPayload) {
				t.Fatalf("expected invalid payload, got %v", err)
			}
		})
	}
}
