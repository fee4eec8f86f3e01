package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the booking lifecycle state. Completed and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// AddonLine is a snapshot of one add-on at booking time. Prices are copied
// from the catalog so later catalog edits do not change the ledger.
type AddonLine struct {
	AddonID   snowflake.ID `json:"addon_id"`
	Name      string       `json:"name"`
	UnitPrice int64        `json:"unit_price"`
	Quantity  int64        `json:"quantity"`
}

// Booking is a ledger entry for one treatment appointment. The split columns
// are written once at creation and are never part of any later UPDATE.
type Booking struct {
	ID          snowflake.ID                     `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID                     `gorm:"not null;index" json:"customer_id"`
	StaffID     *snowflake.ID                    `gorm:"index" json:"staff_id,omitempty"`
	TreatmentID snowflake.ID                     `gorm:"not null" json:"treatment_id"`
	ScheduledAt time.Time                        `gorm:"not null" json:"scheduled_at"`
	Address     string                           `json:"address,omitempty"`
	Addons      datatypes.JSONSlice[AddonLine]   `gorm:"type:jsonb" json:"addons,omitempty"`

	PaymentMethod string `gorm:"not null" json:"payment_method"`
	Status        Status `gorm:"not null;default:pending;index" json:"status"`

	TotalPrice      int64 `gorm:"not null" json:"total_price"`
	StaffCommission int64 `gorm:"not null" json:"staff_commission"`
	TransportFee    int64 `gorm:"not null" json:"transport_fee"`
	GatewayFee      int64 `gorm:"not null" json:"gateway_fee"`
	MaterialCost    int64 `gorm:"not null" json:"material_cost"`
	CompanyShare    int64 `gorm:"not null" json:"company_share"`

	PaidToStaff   bool       `gorm:"not null;default:false;index" json:"paid_to_staff"`
	PaidToStaffAt *time.Time `json:"paid_to_staff_at,omitempty"`
	PayoutNotes   string     `json:"payout_notes,omitempty"`

	StripeSessionID       string `json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string `gorm:"index" json:"stripe_payment_intent_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
