package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetPaymentMethods(ctx context.Context) (PaymentMethods, int64, error)
	UpdatePaymentMethods(ctx context.Context, methods PaymentMethods, expectedVersion int64) (PaymentMethods, int64, error)

	GetLoan(ctx context.Context) (LoanState, int64, error)
	UpdateLoan(ctx context.Context, state LoanState, expectedVersion int64) (LoanState, int64, error)

	// EnsureDefaults seeds missing rows at startup.
	EnsureDefaults(ctx context.Context, loan LoanState) error
}

var (
	ErrNotFound        = errors.New("setting_not_found")
	ErrVersionConflict = errors.New("setting_version_conflict")
	ErrInvalidValue    = errors.New("invalid_setting_value")
)
