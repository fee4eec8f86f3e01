package domain

import (
	"context"
	"errors"
)

// CheckoutGateway creates hosted payment sessions with the provider.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (CheckoutSession, error)
}

// Verifier checks a raw webhook payload against its signature header.
type Verifier interface {
	Verify(payload []byte, signatureHeader string) error
	Parse(payload []byte) (*GatewayEvent, error)
}

// WebhookService applies gateway outcomes to the ledgers exactly once.
type WebhookService interface {
	HandleEvent(ctx context.Context, event GatewayEvent) error
}

var (
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrUnsupportedEvent      = errors.New("unsupported_event")
	ErrInvalidPayload        = errors.New("invalid_payload")
)
