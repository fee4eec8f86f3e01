package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sabaispa/sabai/internal/loan/domain"
	reconciliationdomain "github.com/sabaispa/sabai/internal/reconciliation/domain"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log            *zap.Logger
	Settings       settingsdomain.Service
	Reconciliation reconciliationdomain.Service
}

type Service struct {
	log            *zap.Logger
	settings       settingsdomain.Service
	reconciliation reconciliationdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:            p.Log.Named("loan.service"),
		settings:       p.Settings,
		reconciliation: p.Reconciliation,
	}
}

func (s *Service) Repay(ctx context.Context, amount int64) (domain.Progress, error) {
	if amount <= 0 {
		return domain.Progress{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}

	state, version, err := s.settings.GetLoan(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	collected, err := s.reconciliation.CompanyShareToDate(ctx)
	if err != nil {
		return domain.Progress{}, err
	}

	available := collected - state.RepaidAmount
	if available < 0 {
		available = 0
	}
	if amount > available {
		return domain.Progress{}, fmt.Errorf("%w: amount %d exceeds available %d", domain.ErrInvalidAmount, amount, available)
	}
	if state.RepaidAmount+amount > state.InitialAmount {
		return domain.Progress{}, fmt.Errorf("%w: amount %d would exceed the initial liability", domain.ErrInvalidAmount, amount)
	}

	state.RepaidAmount += amount
	state, _, err = s.settings.UpdateLoan(ctx, state, version)
	if err != nil {
		return domain.Progress{}, err
	}
	s.log.Info("loan repayment recorded",
		zap.Int64("amount", amount),
		zap.Int64("repaid_total", state.RepaidAmount),
	)
	return s.progress(state, collected), nil
}

func (s *Service) Reset(ctx context.Context) (domain.Progress, error) {
	state, version, err := s.settings.GetLoan(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	state.RepaidAmount = 0
	state.StartDate = time.Now().UTC()
	state, _, err = s.settings.UpdateLoan(ctx, state, version)
	if err != nil {
		return domain.Progress{}, err
	}
	collected, err := s.reconciliation.CompanyShareToDate(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	s.log.Info("loan tracker reset")
	return s.progress(state, collected), nil
}

func (s *Service) Progress(ctx context.Context) (domain.Progress, error) {
	state, _, err := s.settings.GetLoan(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	collected, err := s.reconciliation.CompanyShareToDate(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	return s.progress(state, collected), nil
}

func (s *Service) progress(state settingsdomain.LoanState, collected int64) domain.Progress {
	available := collected - state.RepaidAmount
	if available < 0 {
		available = 0
	}
	remaining := state.InitialAmount - state.RepaidAmount
	var percent float64
	if state.InitialAmount > 0 {
		percent = float64(state.RepaidAmount) / float64(state.InitialAmount) * 100
	}
	return domain.Progress{
		InitialAmount: state.InitialAmount,
		RepaidAmount:  state.RepaidAmount,
		Remaining:     remaining,
		Percent:       percent,
		Available:     available,
		Currency:      state.Currency,
		StartDate:     state.StartDate,
	}
}
