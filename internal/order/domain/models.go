package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus tracks the money side of an order. Paid is terminal-success;
// expired and failed are terminal-failure.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
	PaymentFailed  PaymentStatus = "failed"
)

// Status tracks fulfillment. Confirmed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ItemLine snapshots one ordered product with the catalog price at checkout
// time.
type ItemLine struct {
	ProductID snowflake.ID `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice int64        `json:"unit_price"`
	Quantity  int64        `json:"quantity"`
}

// Order is a ledger entry for one shop purchase. Split columns are frozen at
// creation.
type Order struct {
	ID          snowflake.ID                  `gorm:"primaryKey" json:"id"`
	OrderNumber string                        `gorm:"not null;uniqueIndex" json:"order_number"`
	CustomerID  snowflake.ID                  `gorm:"not null;index" json:"customer_id"`
	Items       datatypes.JSONSlice[ItemLine] `gorm:"type:jsonb;not null" json:"items"`

	PaymentMethod string        `gorm:"not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"not null;default:pending;index" json:"payment_status"`
	Status        Status        `gorm:"not null;default:pending;index" json:"status"`

	TotalPrice     int64 `gorm:"not null" json:"total_price"`
	ShopCommission int64 `gorm:"not null" json:"shop_commission"`
	GatewayFee     int64 `gorm:"not null" json:"gateway_fee"`
	CompanyShare   int64 `gorm:"not null" json:"company_share"`

	StripeSessionID       string `json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string `gorm:"index" json:"stripe_payment_intent_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
