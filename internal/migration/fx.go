package migration

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/internal/config"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	settlementdomain "github.com/sabaispa/sabai/internal/settlement/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, settings settingsdomain.Service) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Embedded migrations are written for postgres. Other dialects
			// are for local development only and get the gorm schema.
			if err := conn.AutoMigrate(
				&catalogdomain.Treatment{},
				&catalogdomain.Addon{},
				&catalogdomain.Product{},
				&bookingdomain.Booking{},
				&orderdomain.Order{},
				&paymentdomain.WebhookEvent{},
				&settingsdomain.CompanySetting{},
				&settlementdomain.SettlementBatch{},
			); err != nil {
				return err
			}
		}

		return settings.EnsureDefaults(context.Background(), settingsdomain.LoanState{
			InitialAmount: cfg.LoanInitialAmount,
			Currency:      cfg.LoanCurrency,
		})
	}),
)
