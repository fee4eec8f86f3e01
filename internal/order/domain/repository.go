package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	CustomerID      snowflake.ID
	Statuses        []Status
	PaymentStatuses []PaymentStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Order, error)

	// MarkPaid confirms a pending order after a successful payment. The
	// precondition keeps replays and stale events from re-confirming.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentIntentID string) (int64, error)

	// MarkFailed cancels a pending order on payment failure or expiry.
	// Terminal states, success and failure alike, are never overwritten.
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, reason PaymentStatus) (int64, error)
}
