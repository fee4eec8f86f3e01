package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sabaispa/sabai/internal/settings/domain"
	settingsrepo "github.com/sabaispa/sabai/internal/settings/repository"
	settingsservice "github.com/sabaispa/sabai/internal/settings/service"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	svc := settingsservice.New(settingsservice.Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: settingsrepo.Provide(),
	})
	return svc, db
}

func seededService(t *testing.T, loan domain.LoanState) domain.Service {
	t.Helper()

	svc, _ := newService(t)
	if err := svc.EnsureDefaults(context.Background(), loan); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}
	return svc
}

func TestEnsureDefaultsSeedsOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	loan := domain.LoanState{InitialAmount: 600000, Currency: "THB"}
	if err := svc.EnsureDefaults(ctx, loan); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}

	methods, version, err := svc.GetPaymentMethods(ctx)
	if err != nil {
		t.Fatalf("get payment methods: %v", err)
	}
	if !methods.CashEnabled || !methods.CardEnabled {
		t.Fatalf("defaults must enable both channels: %+v", methods)
	}
	if version != 1 {
		t.Fatalf("seed version: got %d", version)
	}

	state, _, err := svc.GetLoan(ctx)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if state.InitialAmount != 600000 || state.Currency != "THB" {
		t.Fatalf("loan seed wrong: %+v", state)
	}
	if state.StartDate.IsZero() {
		t.Fatal("seed must set a start date")
	}

	// Restart must never overwrite live values.
	if _, _, err := svc.UpdatePaymentMethods(ctx, domain.PaymentMethods{CashEnabled: true}, 1); err != nil {
		t.Fatalf("update payment methods: %v", err)
	}
	if err := svc.EnsureDefaults(ctx, loan); err != nil {
		t.Fatalf("ensure defaults again: %v", err)
	}
	methods, version, err = svc.GetPaymentMethods(ctx)
	if err != nil {
		t.Fatalf("get payment methods: %v", err)
	}
	if methods.CardEnabled {
		t.Fatal("reseed overwrote an updated setting")
	}
	if version != 2 {
		t.Fatalf("version after reseed: got %d", version)
	}
}

func TestEnsureDefaultsFallsBackToTHB(t *testing.T) {
	svc := seededService(t, domain.LoanState{InitialAmount: 100})

	state, _, err := svc.GetLoan(context.Background())
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if state.Currency != "THB" {
		t.Fatalf("currency fallback: got %q", state.Currency)
	}
}

func TestUpdatePaymentMethodsBumpsVersion(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t, domain.LoanState{InitialAmount: 100})

	methods, version, err := svc.UpdatePaymentMethods(ctx, domain.PaymentMethods{CardEnabled: true}, 1)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if methods.CashEnabled || !methods.CardEnabled {
		t.Fatalf("unexpected methods: %+v", methods)
	}
	if version != 2 {
		t.Fatalf("version: got %d, want 2", version)
	}

	stored, storedVersion, err := svc.GetPaymentMethods(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != methods || storedVersion != 2 {
		t.Fatalf("stored state diverged: %+v v%d", stored, storedVersion)
	}
}

func TestUpdatePaymentMethodsRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t, domain.LoanState{InitialAmount: 100})

	if _, _, err := svc.UpdatePaymentMethods(ctx, domain.PaymentMethods{CardEnabled: true}, 1); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// A second writer still holding version 1 must lose.
	_, _, err := svc.UpdatePaymentMethods(ctx, domain.PaymentMethods{CashEnabled: true, CardEnabled: true}, 1)
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	stored, version, err := svc.GetPaymentMethods(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.CashEnabled || !stored.CardEnabled {
		t.Fatalf("losing write leaked through: %+v", stored)
	}
	if version != 2 {
		t.Fatalf("version: got %d", version)
	}
}

func TestUpdatePaymentMethodsRejectsAllDisabled(t *testing.T) {
	svc := seededService(t, domain.LoanState{InitialAmount: 100})

	_, _, err := svc.UpdatePaymentMethods(context.Background(), domain.PaymentMethods{}, 1)
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("expected invalid value, got %v", err)
	}
}

func TestUpdateLoanRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t, domain.LoanState{InitialAmount: 1000})

	cases := []struct {
		name  string
		state domain.LoanState
	}{
		{"negative initial", domain.LoanState{InitialAmount: -1}},
		{"negative repaid", domain.LoanState{InitialAmount: 1000, RepaidAmount: -1}},
		{"repaid above initial", domain.LoanState{InitialAmount: 1000, RepaidAmount: 1001}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.UpdateLoan(ctx, tc.state, 1); !errors.Is(err, domain.ErrInvalidValue) {
				t.Fatalf("expected invalid value, got %v", err)
			}
		})
	}
}

func TestGetUnknownKeyReturnsNotFound(t *testing.T) {
	svc, _ := newService(t)

	if _, _, err := svc.GetPaymentMethods(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateUnseededKeyReturnsNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.UpdatePaymentMethods(context.Background(), domain.PaymentMethods{CashEnabled: true}, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_settings_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := db.Exec(`CREATE TABLE company_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}
