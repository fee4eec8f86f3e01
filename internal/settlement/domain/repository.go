package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	"gorm.io/gorm"
)

type Repository interface {
	// FindSettleable returns the subset of ids that are still unsettled and
	// have a staff assignment. Already-settled ids simply drop out.
	FindSettleable(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*bookingdomain.Booking, error)

	// FindUnsettledForStaff returns every unsettled revenue booking for one
	// staff member.
	FindUnsettledForStaff(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]*bookingdomain.Booking, error)

	// Settle flips paid_to_staff in one statement. The paid_to_staff = false
	// precondition makes concurrent settlements safe.
	Settle(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time, notes string) (int64, error)

	InsertBatch(ctx context.Context, db *gorm.DB, batch *SettlementBatch) error
	FindBatchByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SettlementBatch, error)
	ListBatches(ctx context.Context, db *gorm.DB) ([]*SettlementBatch, error)

	FindBookingsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*bookingdomain.Booking, error)
}
