package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	"github.com/sabaispa/sabai/internal/reconciliation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) RevenueBookings(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]*bookingdomain.Booking, error) {
	var bookings []*bookingdomain.Booking
	stmt := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("status IN ?", domain.RevenueStatuses)
	if staffID != 0 {
		stmt = stmt.Where("staff_id = ?", staffID)
	}
	if err := stmt.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) RevenueOrders(ctx context.Context, db *gorm.DB) ([]*orderdomain.Order, error) {
	var orders []*orderdomain.Order
	err := db.WithContext(ctx).
		Model(&orderdomain.Order{}).
		Where("status = ?", orderdomain.StatusConfirmed).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
