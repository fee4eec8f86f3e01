package domain

import (
	"context"
	"errors"
)

type SettleRequest struct {
	BookingIDs []string
	Notes      string
	Actor      string
}

type SettleAllRequest struct {
	StaffID string
	Notes   string
	Actor   string
}

type Service interface {
	// Settle marks the chosen bookings paid in one atomic batch and writes
	// the audit row. Settling an already-settled booking is a no-op.
	Settle(context.Context, SettleRequest) (SettlementBatch, error)

	// SettleAllForStaff settles every outstanding booking of one staff
	// member.
	SettleAllForStaff(context.Context, SettleAllRequest) (SettlementBatch, error)

	GetBatch(ctx context.Context, id string) (SettlementBatch, error)
	ListBatches(ctx context.Context) ([]SettlementBatch, error)

	// Statement renders a PDF payout statement for a settled batch.
	Statement(ctx context.Context, id string) ([]byte, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidInput = errors.New("invalid_input")
	ErrNotFound     = errors.New("not_found")
)
