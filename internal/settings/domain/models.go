package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Setting keys. Each key maps to exactly one typed value shape.
const (
	KeyPaymentMethods = "payment_methods"
	KeyLoanRepayment  = "loan_repayment"
)

// CompanySetting is one configuration row. Version increments on every
// write and guards concurrent updates.
type CompanySetting struct {
	Key       string         `gorm:"primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	Version   int64          `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PaymentMethods toggles the channels customers may pay over.
type PaymentMethods struct {
	CashEnabled bool `json:"cash_enabled"`
	CardEnabled bool `json:"card_enabled"`
}

// LoanState tracks repayment of the company's fixed external liability.
type LoanState struct {
	InitialAmount int64     `json:"initial_amount"`
	RepaidAmount  int64     `json:"repaid_amount"`
	Currency      string    `json:"currency"`
	StartDate     time.Time `json:"start_date"`
}
