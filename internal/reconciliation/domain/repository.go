package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	"gorm.io/gorm"
)

// RevenueStatuses are the booking states that count toward reconciliation.
// Pending and cancelled bookings never enter any sum.
var RevenueStatuses = []bookingdomain.Status{
	bookingdomain.StatusConfirmed,
	bookingdomain.StatusCompleted,
}

type Repository interface {
	// RevenueBookings returns every booking in a revenue status, optionally
	// scoped to one staff member. Unpaginated by design: reconciliation
	// folds over the full set.
	RevenueBookings(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]*bookingdomain.Booking, error)

	// RevenueOrders returns every confirmed order.
	RevenueOrders(ctx context.Context, db *gorm.DB) ([]*orderdomain.Order, error)
}
