package domain

import (
	"context"
	"errors"
	"time"
)

// Progress is the loan position derived from the stored state and the
// cumulative company share.
type Progress struct {
	InitialAmount int64     `json:"initial_amount"`
	RepaidAmount  int64     `json:"repaid_amount"`
	Remaining     int64     `json:"remaining"`
	Percent       float64   `json:"percent"`
	Available     int64     `json:"available"`
	Currency      string    `json:"currency"`
	StartDate     time.Time `json:"start_date"`
}

type Service interface {
	// Repay increments the repaid counter. The amount can never exceed what
	// the company has actually collected, nor push repayment past the
	// initial liability.
	Repay(ctx context.Context, amount int64) (Progress, error)

	// Reset zeroes the repaid counter and restarts the clock. Transaction
	// history is untouched.
	Reset(ctx context.Context) (Progress, error)

	Progress(ctx context.Context) (Progress, error)
}

var ErrInvalidAmount = errors.New("invalid_amount")
