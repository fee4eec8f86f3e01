package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	"github.com/sabaispa/sabai/internal/settlement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindSettleable(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*bookingdomain.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var bookings []*bookingdomain.Booking
	err := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("id IN ?", ids).
		Where("paid_to_staff = ?", false).
		Where("staff_id IS NOT NULL").
		Where("status IN ?", []bookingdomain.Status{bookingdomain.StatusConfirmed, bookingdomain.StatusCompleted}).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) FindUnsettledForStaff(ctx context.Context, db *gorm.DB, staffID snowflake.ID) ([]*bookingdomain.Booking, error) {
	var bookings []*bookingdomain.Booking
	err := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("staff_id = ?", staffID).
		Where("paid_to_staff = ?", false).
		Where("status IN ?", []bookingdomain.Status{bookingdomain.StatusConfirmed, bookingdomain.StatusCompleted}).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) Settle(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time, notes string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// A blank batch note keeps whatever note the booking already carries.
	res := db.WithContext(ctx).Exec(
		`UPDATE bookings
		 SET paid_to_staff = ?, paid_to_staff_at = ?, updated_at = ?,
		     payout_notes = CASE WHEN ? = '' THEN payout_notes ELSE ? END
		 WHERE id IN ? AND paid_to_staff = ? AND staff_id IS NOT NULL`,
		true,
		at,
		at,
		notes,
		notes,
		ids,
		false,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, batch *domain.SettlementBatch) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO settlement_batches (id, staff_id, booking_ids, settled_at, total_amount, notes, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.ID,
		batch.StaffID,
		batch.BookingIDs,
		batch.SettledAt,
		batch.TotalAmount,
		batch.Notes,
		batch.CreatedBy,
		batch.CreatedAt,
	).Error
}

func (r *repo) FindBatchByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SettlementBatch, error) {
	var batch domain.SettlementBatch
	err := db.WithContext(ctx).
		Model(&domain.SettlementBatch{}).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).Error
	if err != nil {
		return nil, err
	}
	if batch.ID == 0 {
		return nil, nil
	}
	return &batch, nil
}

func (r *repo) ListBatches(ctx context.Context, db *gorm.DB) ([]*domain.SettlementBatch, error) {
	var batches []*domain.SettlementBatch
	err := db.WithContext(ctx).
		Model(&domain.SettlementBatch{}).
		Order("created_at desc, id desc").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repo) FindBookingsByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*bookingdomain.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var bookings []*bookingdomain.Booking
	err := db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("id IN ?", ids).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
