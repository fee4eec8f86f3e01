package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SettlementBatch is the audit record for one settlement operation. The
// booking rows carry the authoritative paid_to_staff flags; the batch exists
// so an operator can answer "who settled what, when".
type SettlementBatch struct {
	ID          snowflake.ID                      `gorm:"primaryKey" json:"id"`
	StaffID     *snowflake.ID                     `gorm:"index" json:"staff_id,omitempty"`
	BookingIDs  datatypes.JSONSlice[snowflake.ID] `gorm:"type:jsonb;not null" json:"booking_ids"`
	SettledAt   time.Time                         `gorm:"not null" json:"settled_at"`
	TotalAmount int64                             `gorm:"not null" json:"total_amount"`
	Notes       string                            `json:"notes,omitempty"`
	CreatedBy   string                            `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
