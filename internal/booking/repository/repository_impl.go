package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/booking/domain"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bookings (
			id, customer_id, staff_id, treatment_id, scheduled_at, address, addons,
			payment_method, status,
			total_price, staff_commission, transport_fee, gateway_fee, material_cost, company_share,
			paid_to_staff, paid_to_staff_at, payout_notes,
			stripe_session_id, stripe_payment_intent_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.CustomerID,
		booking.StaffID,
		booking.TreatmentID,
		booking.ScheduledAt,
		booking.Address,
		booking.Addons,
		booking.PaymentMethod,
		booking.Status,
		booking.TotalPrice,
		booking.StaffCommission,
		booking.TransportFee,
		booking.GatewayFee,
		booking.MaterialCost,
		booking.CompanyShare,
		booking.PaidToStaff,
		booking.PaidToStaffAt,
		booking.PayoutNotes,
		booking.StripeSessionID,
		booking.StripePaymentIntentID,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Limit(1).
		Find(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	stmt := db.WithContext(ctx).Model(&domain.Booking{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.StaffID != 0 {
		stmt = stmt.Where("staff_id = ?", filter.StaffID)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	if filter.PaidToStaff != nil {
		stmt = stmt.Where("paid_to_staff = ?", *filter.PaidToStaff)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from []domain.Status, to domain.Status) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status IN ?`,
		to,
		time.Now().UTC(),
		id,
		from,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentIntentID string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings
		 SET status = ?, stripe_payment_intent_id = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusConfirmed,
		paymentIntentID,
		time.Now().UTC(),
		id,
		domain.StatusPending,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateScheduling(ctx context.Context, db *gorm.DB, id snowflake.ID, scheduledAt time.Time, address string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET scheduled_at = ?, address = ?, updated_at = ? WHERE id = ?`,
		scheduledAt,
		address,
		time.Now().UTC(),
		id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdatePayoutNotes(ctx context.Context, db *gorm.DB, id snowflake.ID, notes string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET payout_notes = ?, updated_at = ? WHERE id = ?`,
		notes,
		time.Now().UTC(),
		id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) AssignStaff(ctx context.Context, db *gorm.DB, id snowflake.ID, staffID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings SET staff_id = ?, updated_at = ? WHERE id = ? AND status IN ?`,
		staffID,
		time.Now().UTC(),
		id,
		[]domain.Status{domain.StatusPending, domain.StatusConfirmed},
	)
	return res.RowsAffected, res.Error
}
