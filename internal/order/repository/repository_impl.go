package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/order/domain"
	"github.com/sabaispa/sabai/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (
			id, order_number, customer_id, items,
			payment_method, payment_status, status,
			total_price, shop_commission, gateway_fee, company_share,
			stripe_session_id, stripe_payment_intent_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.Items,
		order.PaymentMethod,
		order.PaymentStatus,
		order.Status,
		order.TotalPrice,
		order.ShopCommission,
		order.GatewayFee,
		order.CompanyShare,
		order.StripeSessionID,
		order.StripePaymentIntentID,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Limit(1).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Order, error) {
	var orders []*domain.Order
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if len(filter.Statuses) > 0 {
		stmt = stmt.Where("status IN ?", filter.Statuses)
	}
	if len(filter.PaymentStatuses) > 0 {
		stmt = stmt.Where("payment_status IN ?", filter.PaymentStatuses)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paymentIntentID string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET payment_status = ?, status = ?, stripe_payment_intent_id = ?, updated_at = ?
		 WHERE id = ? AND payment_status = ? AND status = ?`,
		domain.PaymentPaid,
		domain.StatusConfirmed,
		paymentIntentID,
		time.Now().UTC(),
		id,
		domain.PaymentPending,
		domain.StatusPending,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, reason domain.PaymentStatus) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET payment_status = ?, status = ?, updated_at = ?
		 WHERE id = ? AND payment_status = ? AND status = ?`,
		reason,
		domain.StatusCancelled,
		time.Now().UTC(),
		id,
		domain.PaymentPending,
		domain.StatusPending,
	)
	return res.RowsAffected, res.Error
}
