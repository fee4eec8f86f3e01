package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertEvent(ctx context.Context, db *gorm.DB, event *domain.WebhookEvent) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO webhook_events (id, gateway_event_id, payment_intent_id, event_type, target_kind, target_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		event.ID,
		event.GatewayEventID,
		event.PaymentIntentID,
		event.EventType,
		event.TargetKind,
		event.TargetID,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateEventStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.ProcessingStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE webhook_events SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) FindEventByGatewayID(ctx context.Context, db *gorm.DB, gatewayEventID string) (*domain.WebhookEvent, error) {
	var event domain.WebhookEvent
	err := db.WithContext(ctx).
		Model(&domain.WebhookEvent{}).
		Where("gateway_event_id = ?", gatewayEventID).
		Limit(1).
		Find(&event).Error
	if err != nil {
		return nil, err
	}
	if event.ID == 0 {
		return nil, nil
	}
	return &event, nil
}
