package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	"github.com/sabaispa/sabai/internal/commission"
	"github.com/sabaispa/sabai/internal/providers/pdf"
	"github.com/sabaispa/sabai/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	PDF   pdf.StatementRenderer
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	pdf   pdf.StatementRenderer
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settlement.service"),
		genID: p.GenID,
		repo:  p.Repo,
		pdf:   p.PDF,
	}
}

// Settle runs the whole batch in one transaction: the conditional multi-row
// update plus the audit insert. Any failure rolls both back, so a partially
// settled batch is never visible.
func (s *Service) Settle(ctx context.Context, req domain.SettleRequest) (domain.SettlementBatch, error) {
	if len(req.BookingIDs) == 0 {
		return domain.SettlementBatch{}, fmt.Errorf("%w: no booking ids", domain.ErrInvalidInput)
	}
	ids := make([]snowflake.ID, 0, len(req.BookingIDs))
	for _, raw := range req.BookingIDs {
		id, err := parseID(raw)
		if err != nil {
			return domain.SettlementBatch{}, err
		}
		ids = append(ids, id)
	}
	return s.settle(ctx, ids, nil, req.Notes, req.Actor)
}

func (s *Service) SettleAllForStaff(ctx context.Context, req domain.SettleAllRequest) (domain.SettlementBatch, error) {
	staffID, err := parseID(req.StaffID)
	if err != nil {
		return domain.SettlementBatch{}, err
	}
	outstanding, err := s.repo.FindUnsettledForStaff(ctx, s.db, staffID)
	if err != nil {
		return domain.SettlementBatch{}, err
	}
	ids := make([]snowflake.ID, 0, len(outstanding))
	for _, b := range outstanding {
		ids = append(ids, b.ID)
	}
	return s.settle(ctx, ids, &staffID, req.Notes, req.Actor)
}

func (s *Service) settle(ctx context.Context, ids []snowflake.ID, staffID *snowflake.ID, notes, actor string) (domain.SettlementBatch, error) {
	now := time.Now().UTC()
	batch := domain.SettlementBatch{
		ID:        s.genID.Generate(),
		StaffID:   staffID,
		SettledAt: now,
		Notes:     notes,
		CreatedBy: strings.TrimSpace(actor),
		CreatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settleable, err := s.repo.FindSettleable(ctx, tx, ids)
		if err != nil {
			return err
		}

		settledIDs := make([]snowflake.ID, 0, len(settleable))
		for _, b := range settleable {
			settledIDs = append(settledIDs, b.ID)
			batch.TotalAmount += netAmount(b)
		}
		batch.BookingIDs = datatypes.NewJSONSlice(settledIDs)

		affected, err := s.repo.Settle(ctx, tx, settledIDs, now, notes)
		if err != nil {
			return err
		}
		if affected != int64(len(settledIDs)) {
			return fmt.Errorf("settled %d of %d selected bookings", affected, len(settledIDs))
		}
		return s.repo.InsertBatch(ctx, tx, &batch)
	})
	if err != nil {
		return domain.SettlementBatch{}, err
	}

	s.log.Info("settlement batch applied",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("settled", len(batch.BookingIDs)),
		zap.Int64("net_amount", batch.TotalAmount),
	)
	return batch, nil
}

func (s *Service) GetBatch(ctx context.Context, id string) (domain.SettlementBatch, error) {
	parsed, err := parseID(id)
	if err != nil {
		return domain.SettlementBatch{}, err
	}
	batch, err := s.repo.FindBatchByID(ctx, s.db, parsed)
	if err != nil {
		return domain.SettlementBatch{}, err
	}
	if batch == nil {
		return domain.SettlementBatch{}, domain.ErrNotFound
	}
	return *batch, nil
}

func (s *Service) ListBatches(ctx context.Context) ([]domain.SettlementBatch, error) {
	items, err := s.repo.ListBatches(ctx, s.db)
	if err != nil {
		return nil, err
	}
	batches := make([]domain.SettlementBatch, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		batches = append(batches, *item)
	}
	return batches, nil
}

func (s *Service) Statement(ctx context.Context, id string) ([]byte, error) {
	batch, err := s.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.FindBookingsByIDs(ctx, s.db, batch.BookingIDs)
	if err != nil {
		return nil, err
	}

	data := pdf.StatementData{
		BatchID:   batch.ID.String(),
		SettledAt: batch.SettledAt,
		CreatedBy: batch.CreatedBy,
		Notes:     batch.Notes,
		Currency:  "THB",
		NetAmount: batch.TotalAmount,
	}
	if batch.StaffID != nil {
		data.StaffID = batch.StaffID.String()
	}
	for _, b := range bookings {
		data.Lines = append(data.Lines, pdf.StatementLine{
			BookingID:     b.ID.String(),
			Date:          b.ScheduledAt,
			PaymentMethod: b.PaymentMethod,
			TotalPrice:    b.TotalPrice,
			StaffKeeps:    b.StaffCommission + b.TransportFee,
			CompanyShare:  b.CompanyShare,
		})
	}
	return s.pdf.RenderStatement(data)
}

// netAmount is the signed value changing hands for one booking: cash means
// staff hand over the company share, online means the company pays out
// commission plus transport.
func netAmount(b *bookingdomain.Booking) int64 {
	if b.PaymentMethod == string(commission.MethodCash) {
		return b.CompanyShare
	}
	return -(b.StaffCommission + b.TransportFee)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
