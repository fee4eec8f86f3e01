package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sabaispa/sabai/internal/payment/domain"
)

// Adapter verifies and translates Stripe webhook payloads into
// provider-neutral gateway events.
type Adapter struct {
	webhookSecret string
}

func New(webhookSecret string) (*Adapter, error) {
	webhookSecret = strings.TrimSpace(webhookSecret)
	if webhookSecret == "" {
		return nil, errors.New("stripe: webhook secret is required")
	}
	return &Adapter{webhookSecret: webhookSecret}, nil
}

// Verify checks the Stripe-Signature header: HMAC-SHA256 over
// "timestamp.payload" compared against every v1 entry.
func (a *Adapter) Verify(payload []byte, signatureHeader string) error {
	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" {
		return domain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	signedPayload := fmt.Sprintf("%s.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	_, _ = mac.Write([]byte(signedPayload))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}
	return domain.ErrInvalidSignature
}

func (a *Adapter) Parse(payload []byte) (*domain.GatewayEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, domain.ErrInvalidPayload
	}

	switch strings.TrimSpace(event.Type) {
	case "checkout.session.completed":
		return a.parseSession(event, domain.EventSessionCompleted)
	case "checkout.session.expired":
		return a.parseSession(event, domain.EventSessionExpired)
	case "payment_intent.payment_failed":
		return a.parseIntentFailed(event)
	default:
		return nil, domain.ErrUnsupportedEvent
	}
}

type stripeEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeSession struct {
	ID            string         `json:"id"`
	PaymentIntent string         `json:"payment_intent"`
	Metadata      map[string]any `json:"metadata"`
}

type stripeIntent struct {
	ID               string         `json:"id"`
	Metadata         map[string]any `json:"metadata"`
	LastPaymentError struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (a *Adapter) parseSession(event stripeEvent, eventType domain.EventType) (*domain.GatewayEvent, error) {
	var session stripeSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	kind, targetID := parseTarget(session.Metadata)
	return &domain.GatewayEvent{
		EventID:         event.ID,
		Type:            eventType,
		PaymentIntentID: strings.TrimSpace(session.PaymentIntent),
		SessionID:       session.ID,
		TargetKind:      kind,
		TargetID:        targetID,
	}, nil
}

func (a *Adapter) parseIntentFailed(event stripeEvent) (*domain.GatewayEvent, error) {
	var intent stripeIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	kind, targetID := parseTarget(intent.Metadata)
	return &domain.GatewayEvent{
		EventID:         event.ID,
		Type:            domain.EventPaymentFailed,
		PaymentIntentID: strings.TrimSpace(intent.ID),
		TargetKind:      kind,
		TargetID:        targetID,
		FailureReason:   strings.TrimSpace(intent.LastPaymentError.Message),
	}, nil
}

func parseTarget(metadata map[string]any) (domain.TargetKind, string) {
	if id := readMetadataValue(metadata, "order_id"); id != "" {
		return domain.TargetOrder, id
	}
	if id := readMetadataValue(metadata, "booking_id"); id != "" {
		return domain.TargetBooking, id
	}
	return "", ""
}

func parseSignatureHeader(header string) (string, []string, error) {
	parts := strings.Split(header, ",")
	var timestamp string
	signatures := []string{}
	for _, part := range parts {
		piece := strings.TrimSpace(part)
		if piece == "" {
			continue
		}
		keyValue := strings.SplitN(piece, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		key := strings.TrimSpace(keyValue[0])
		value := strings.TrimSpace(keyValue[1])
		if key == "t" {
			timestamp = value
		}
		if key == "v1" {
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, errors.New("invalid_signature")
	}
	return timestamp, signatures, nil
}

func readMetadataValue(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	value, ok := metadata[key]
	if !ok {
		return ""
	}
	switch cast := value.(type) {
	case string:
		return strings.TrimSpace(cast)
	case float64:
		if cast == 0 {
			return ""
		}
		return strconv.FormatInt(int64(cast), 10)
	case json.Number:
		return cast.String()
	}
	return ""
}
