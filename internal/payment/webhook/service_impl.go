package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	"github.com/sabaispa/sabai/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Orders   orderdomain.Repository
	Bookings bookingdomain.Repository
	Catalog  catalogdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	orders   orderdomain.Repository
	bookings bookingdomain.Repository
	catalog  catalogdomain.Repository
}

func New(p Params) domain.WebhookService {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.webhook"),
		genID:    p.GenID,
		repo:     p.Repo,
		orders:   p.Orders,
		bookings: p.Bookings,
		catalog:  p.Catalog,
	}
}

// HandleEvent applies one gateway outcome at most once. The idempotency row
// is inserted first inside the transaction; a conflict on the event id or
// the intent id means the outcome was already applied, and the whole
// transaction rolls back on any later failure so the record and the ledger
// mutation commit together.
func (s *Service) HandleEvent(ctx context.Context, event domain.GatewayEvent) error {
	if strings.TrimSpace(event.EventID) == "" {
		return domain.ErrInvalidPayload
	}

	now := time.Now().UTC()
	record := domain.WebhookEvent{
		ID:             s.genID.Generate(),
		GatewayEventID: event.EventID,
		EventType:      event.Type,
		TargetKind:     event.TargetKind,
		TargetID:       event.TargetID,
		Status:         domain.ProcessingProcessed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if intent := strings.TrimSpace(event.PaymentIntentID); intent != "" {
		record.PaymentIntentID = &intent
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.repo.InsertEvent(ctx, tx, &record)
		if err != nil {
			return err
		}
		if inserted == 0 {
			return domain.ErrEventAlreadyProcessed
		}

		status, err := s.apply(ctx, tx, event)
		if err != nil {
			return err
		}
		if status != domain.ProcessingProcessed {
			return s.repo.UpdateEventStatus(ctx, tx, record.ID, status)
		}
		return nil
	})
}

func (s *Service) apply(ctx context.Context, tx *gorm.DB, event domain.GatewayEvent) (domain.ProcessingStatus, error) {
	switch event.TargetKind {
	case domain.TargetOrder:
		return s.applyToOrder(ctx, tx, event)
	case domain.TargetBooking:
		return s.applyToBooking(ctx, tx, event)
	default:
		s.log.Warn("webhook event without a target", zap.String("event_id", event.EventID))
		return domain.ProcessingSkipped, nil
	}
}

func (s *Service) applyToOrder(ctx context.Context, tx *gorm.DB, event domain.GatewayEvent) (domain.ProcessingStatus, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(event.TargetID))
	if err != nil || orderID == 0 {
		s.log.Warn("webhook event with malformed order id", zap.String("event_id", event.EventID), zap.String("order_id", event.TargetID))
		return domain.ProcessingSkipped, nil
	}
	order, err := s.orders.FindByID(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		// The gateway will not retry a success response, and a retry could
		// never succeed anyway.
		s.log.Warn("webhook event for unknown order", zap.String("event_id", event.EventID), zap.String("order_id", event.TargetID))
		return domain.ProcessingSkipped, nil
	}

	switch event.Type {
	case domain.EventSessionCompleted:
		if order.PaymentStatus == orderdomain.PaymentPaid || order.Status == orderdomain.StatusConfirmed {
			return domain.ProcessingSkipped, nil
		}
		// Stock comes off here for online payment only. Cash orders are
		// decremented at creation.
		for _, line := range order.Items {
			if err := s.catalog.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return "", err
			}
		}
		affected, err := s.orders.MarkPaid(ctx, tx, order.ID, event.PaymentIntentID)
		if err != nil {
			return "", err
		}
		if affected == 0 {
			return "", fmt.Errorf("order %s changed state mid-confirmation", order.ID)
		}
		s.log.Info("order confirmed by gateway", zap.String("order_id", order.ID.String()), zap.String("event_id", event.EventID))
		return domain.ProcessingProcessed, nil

	case domain.EventSessionExpired, domain.EventPaymentFailed:
		reason := orderdomain.PaymentExpired
		if event.Type == domain.EventPaymentFailed {
			reason = orderdomain.PaymentFailed
		}
		affected, err := s.orders.MarkFailed(ctx, tx, order.ID, reason)
		if err != nil {
			return "", err
		}
		if affected == 0 {
			// Already terminal, success or failure; a stale event never
			// overwrites it.
			return domain.ProcessingSkipped, nil
		}
		s.log.Info("order cancelled by gateway",
			zap.String("order_id", order.ID.String()),
			zap.String("reason", string(reason)),
		)
		return domain.ProcessingProcessed, nil

	default:
		return domain.ProcessingSkipped, nil
	}
}

func (s *Service) applyToBooking(ctx context.Context, tx *gorm.DB, event domain.GatewayEvent) (domain.ProcessingStatus, error) {
	bookingID, err := snowflake.ParseString(strings.TrimSpace(event.TargetID))
	if err != nil || bookingID == 0 {
		s.log.Warn("webhook event with malformed booking id", zap.String("event_id", event.EventID), zap.String("booking_id", event.TargetID))
		return domain.ProcessingSkipped, nil
	}
	booking, err := s.bookings.FindByID(ctx, tx, bookingID)
	if err != nil {
		return "", err
	}
	if booking == nil {
		s.log.Warn("webhook event for unknown booking", zap.String("event_id", event.EventID), zap.String("booking_id", event.TargetID))
		return domain.ProcessingSkipped, nil
	}

	switch event.Type {
	case domain.EventSessionCompleted:
		affected, err := s.bookings.MarkPaid(ctx, tx, booking.ID, event.PaymentIntentID)
		if err != nil {
			return "", err
		}
		if affected == 0 {
			return domain.ProcessingSkipped, nil
		}
		s.log.Info("booking confirmed by gateway", zap.String("booking_id", booking.ID.String()), zap.String("event_id", event.EventID))
		return domain.ProcessingProcessed, nil

	case domain.EventSessionExpired, domain.EventPaymentFailed:
		affected, err := s.bookings.UpdateStatus(ctx, tx, booking.ID,
			[]bookingdomain.Status{bookingdomain.StatusPending}, bookingdomain.StatusCancelled)
		if err != nil {
			return "", err
		}
		if affected == 0 {
			return domain.ProcessingSkipped, nil
		}
		s.log.Info("booking cancelled by gateway", zap.String("booking_id", booking.ID.String()))
		return domain.ProcessingProcessed, nil

	default:
		return domain.ProcessingSkipped, nil
	}
}
