package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertEvent records the idempotency row. A conflict on the event id or
	// the payment intent id inserts nothing and returns zero rows, which is
	// how duplicate deliveries are detected.
	InsertEvent(ctx context.Context, db *gorm.DB, event *WebhookEvent) (int64, error)

	UpdateEventStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ProcessingStatus) error

	FindEventByGatewayID(ctx context.Context, db *gorm.DB, gatewayEventID string) (*WebhookEvent, error)
}
