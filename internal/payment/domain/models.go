package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EventType is the canonical gateway notification type.
type EventType string

const (
	EventSessionCompleted EventType = "session_completed"
	EventSessionExpired   EventType = "session_expired"
	EventPaymentFailed    EventType = "payment_failed"
)

// TargetKind says which ledger the event settles against.
type TargetKind string

const (
	TargetOrder   TargetKind = "order"
	TargetBooking TargetKind = "booking"
)

// GatewayEvent is a provider-neutral view of one webhook notification.
type GatewayEvent struct {
	EventID         string
	Type            EventType
	PaymentIntentID string
	SessionID       string
	TargetKind      TargetKind
	TargetID        string
	FailureReason   string
}

// ProcessingStatus records how a stored event ended up.
type ProcessingStatus string

const (
	ProcessingProcessed ProcessingStatus = "processed"
	ProcessingSkipped   ProcessingStatus = "skipped"
	ProcessingFailed    ProcessingStatus = "failed"
)

// WebhookEvent is the idempotency record. Unique keys on the gateway event id
// and the payment intent id enforce at-most-once processing.
type WebhookEvent struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	GatewayEventID  string           `gorm:"not null;uniqueIndex" json:"gateway_event_id"`
	PaymentIntentID *string          `gorm:"uniqueIndex" json:"payment_intent_id,omitempty"`
	EventType       EventType        `gorm:"not null" json:"event_type"`
	TargetKind      TargetKind       `json:"target_kind,omitempty"`
	TargetID        string           `json:"target_id,omitempty"`
	Status          ProcessingStatus `gorm:"not null" json:"status"`
	CreatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// LineItem is one purchasable row sent to the gateway at session creation.
type LineItem struct {
	Name      string
	UnitPrice int64
	Quantity  int64
}

type CreateCheckoutSessionRequest struct {
	LineItems  []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	TargetKind TargetKind
	TargetID   string
}

// CheckoutSession is the gateway's handle for a hosted payment page.
type CheckoutSession struct {
	ID  string
	URL string
}
