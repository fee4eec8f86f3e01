package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID  snowflake.ID
	StaffID     snowflake.ID
	Statuses    []Status
	PaidToStaff *bool
}

// Repository exposes only the mutations the lifecycle allows. Split columns
// have no update path at all.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Booking, error)

	// UpdateStatus moves a booking from one of the given states to the next.
	// Returns the number of rows changed so callers can detect stale
	// transitions.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from []Status, to Status) (int64, error)

	// MarkPaid confirms a pending booking after a successful online payment
	// and records the payment intent.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentIntentID string) (int64, error)

	UpdateScheduling(ctx context.Context, db *gorm.DB, id snowflake.ID, scheduledAt time.Time, address string) (int64, error)
	UpdatePayoutNotes(ctx context.Context, db *gorm.DB, id snowflake.ID, notes string) (int64, error)
	AssignStaff(ctx context.Context, db *gorm.DB, id snowflake.ID, staffID snowflake.ID) (int64, error)
}
