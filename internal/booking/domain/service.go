package domain

import (
	"context"
	"errors"
	"time"
)

type AddonSelection struct {
	AddonID  string `json:"addon_id"`
	Quantity int64  `json:"quantity"`
}

type CreateBookingRequest struct {
	CustomerID    string
	StaffID       string
	TreatmentID   string
	ScheduledAt   time.Time
	Address       string
	Addons        []AddonSelection
	PaymentMethod string
}

type ListBookingRequest struct {
	Page        int
	PageSize    int
	CustomerID  string
	StaffID     string
	Statuses    []Status
	PaidToStaff *bool
}

// UpdateBookingRequest is a sparse patch. Only scheduling fields and payout
// notes are writable; anything else is rejected.
type UpdateBookingRequest struct {
	ID     string
	Fields map[string]any
}

type Service interface {
	Create(context.Context, CreateBookingRequest) (Booking, error)
	GetByID(ctx context.Context, id string) (Booking, error)
	List(context.Context, ListBookingRequest) ([]Booking, error)
	Update(context.Context, UpdateBookingRequest) (Booking, error)

	Confirm(ctx context.Context, id string) (Booking, error)
	Complete(ctx context.Context, id string) (Booking, error)
	Cancel(ctx context.Context, id string) (Booking, error)
	AssignStaff(ctx context.Context, id, staffID string) (Booking, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidInput      = errors.New("invalid_input")
	ErrNotFound          = errors.New("not_found")
	ErrImmutableField    = errors.New("immutable_field")
	ErrInvalidTransition = errors.New("invalid_transition")
)

// FrozenFields are the split columns written once at creation. An update
// request naming any of them fails with ErrImmutableField.
var FrozenFields = map[string]struct{}{
	"total_price":      {},
	"staff_commission": {},
	"transport_fee":    {},
	"gateway_fee":      {},
	"material_cost":    {},
	"company_share":    {},
	"payment_method":   {},
	"addons":           {},
}
