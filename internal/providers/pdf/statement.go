package pdf

import (
	"time"
)

// StatementLine is one settled booking on a payout statement.
type StatementLine struct {
	BookingID     string
	Date          time.Time
	PaymentMethod string
	TotalPrice    int64
	StaffKeeps    int64
	CompanyShare  int64
}

// StatementData is everything a payout statement renders.
type StatementData struct {
	BatchID   string
	StaffID   string
	SettledAt time.Time
	CreatedBy string
	Notes     string
	Currency  string
	Lines     []StatementLine
	NetAmount int64
}

// StatementRenderer renders a settlement batch into a document.
type StatementRenderer interface {
	RenderStatement(data StatementData) ([]byte, error)
}
