package domain

import (
	"context"
	"errors"
)

type Service interface {
	// GlobalSummary covers all revenue bookings (staff-less included) plus
	// shop orders.
	GlobalSummary(ctx context.Context) (GlobalSummary, error)

	// StaffSummary scopes to one staff member's bookings.
	StaffSummary(ctx context.Context, staffID string) (Summary, error)

	// Payouts groups unsettled balances per staff member.
	Payouts(ctx context.Context) ([]StaffPayout, error)

	// CompanyShareToDate is the cumulative company share across bookings
	// and orders, consumed by the loan tracker as a repayment ceiling.
	CompanyShareToDate(ctx context.Context) (int64, error)
}

var ErrInvalidID = errors.New("invalid_id")
