package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sabaispa/sabai/internal/reconciliation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("reconciliation.service"),
		repo: p.Repo,
	}
}

func (s *Service) GlobalSummary(ctx context.Context) (domain.GlobalSummary, error) {
	bookings, err := s.repo.RevenueBookings(ctx, s.db, 0)
	if err != nil {
		return domain.GlobalSummary{}, err
	}
	orders, err := s.repo.RevenueOrders(ctx, s.db)
	if err != nil {
		return domain.GlobalSummary{}, err
	}

	summary := domain.GlobalSummary{
		Bookings: domain.Summarize(bookings),
		Orders:   domain.SummarizeOrders(orders),
	}
	summary.CompanyShare = summary.Bookings.Cash.Company +
		summary.Bookings.Online.Company +
		summary.Orders.CompanyShare
	return summary, nil
}

func (s *Service) StaffSummary(ctx context.Context, staffID string) (domain.Summary, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(staffID))
	if err != nil || id == 0 {
		return domain.Summary{}, domain.ErrInvalidID
	}
	bookings, err := s.repo.RevenueBookings(ctx, s.db, id)
	if err != nil {
		return domain.Summary{}, err
	}
	summary := domain.Summarize(bookings)
	summary.StaffID = &id
	return summary, nil
}

func (s *Service) Payouts(ctx context.Context) ([]domain.StaffPayout, error) {
	bookings, err := s.repo.RevenueBookings(ctx, s.db, 0)
	if err != nil {
		return nil, err
	}
	return domain.GroupByStaff(bookings), nil
}

func (s *Service) CompanyShareToDate(ctx context.Context) (int64, error) {
	summary, err := s.GlobalSummary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.CompanyShare, nil
}
