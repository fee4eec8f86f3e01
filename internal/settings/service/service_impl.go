package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sabaispa/sabai/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:  p.Log.Named("settings.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetPaymentMethods(ctx context.Context) (domain.PaymentMethods, int64, error) {
	var methods domain.PaymentMethods
	version, err := s.get(ctx, domain.KeyPaymentMethods, &methods)
	if err != nil {
		return domain.PaymentMethods{}, 0, err
	}
	return methods, version, nil
}

func (s *Service) UpdatePaymentMethods(ctx context.Context, methods domain.PaymentMethods, expectedVersion int64) (domain.PaymentMethods, int64, error) {
	if !methods.CashEnabled && !methods.CardEnabled {
		return domain.PaymentMethods{}, 0, fmt.Errorf("%w: at least one payment method must stay enabled", domain.ErrInvalidValue)
	}
	version, err := s.update(ctx, domain.KeyPaymentMethods, methods, expectedVersion)
	if err != nil {
		return domain.PaymentMethods{}, 0, err
	}
	return methods, version, nil
}

func (s *Service) GetLoan(ctx context.Context) (domain.LoanState, int64, error) {
	var state domain.LoanState
	version, err := s.get(ctx, domain.KeyLoanRepayment, &state)
	if err != nil {
		return domain.LoanState{}, 0, err
	}
	return state, version, nil
}

func (s *Service) UpdateLoan(ctx context.Context, state domain.LoanState, expectedVersion int64) (domain.LoanState, int64, error) {
	if state.InitialAmount < 0 || state.RepaidAmount < 0 || state.RepaidAmount > state.InitialAmount {
		return domain.LoanState{}, 0, fmt.Errorf("%w: loan amounts out of range", domain.ErrInvalidValue)
	}
	version, err := s.update(ctx, domain.KeyLoanRepayment, state, expectedVersion)
	if err != nil {
		return domain.LoanState{}, 0, err
	}
	return state, version, nil
}

func (s *Service) EnsureDefaults(ctx context.Context, loan domain.LoanState) error {
	now := time.Now().UTC()
	if strings.TrimSpace(loan.Currency) == "" {
		loan.Currency = "THB"
	}
	if loan.StartDate.IsZero() {
		loan.StartDate = now
	}

	defaults := []struct {
		key   string
		value any
	}{
		{domain.KeyPaymentMethods, domain.PaymentMethods{CashEnabled: true, CardEnabled: true}},
		{domain.KeyLoanRepayment, loan},
	}
	for _, def := range defaults {
		raw, err := json.Marshal(def.value)
		if err != nil {
			return err
		}
		inserted, err := s.repo.InsertIfMissing(ctx, s.db, &domain.CompanySetting{
			Key:       def.key,
			Value:     datatypes.JSON(raw),
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if inserted > 0 {
			s.log.Info("seeded setting", zap.String("key", def.key))
		}
	}
	return nil
}

func (s *Service) get(ctx context.Context, key string, out any) (int64, error) {
	setting, err := s.repo.Find(ctx, s.db, key)
	if err != nil {
		return 0, err
	}
	if setting == nil {
		return 0, domain.ErrNotFound
	}
	if err := json.Unmarshal(setting.Value, out); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidValue, err)
	}
	return setting.Version, nil
}

func (s *Service) update(ctx context.Context, key string, value any, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	affected, err := s.repo.UpdateVersioned(ctx, s.db, key, datatypes.JSON(raw), expectedVersion)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		setting, err := s.repo.Find(ctx, s.db, key)
		if err != nil {
			return 0, err
		}
		if setting == nil {
			return 0, domain.ErrNotFound
		}
		return 0, domain.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}
