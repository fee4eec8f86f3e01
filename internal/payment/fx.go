package payment

import (
	"github.com/sabaispa/sabai/internal/config"
	"github.com/sabaispa/sabai/internal/payment/adapters/stripe"
	"github.com/sabaispa/sabai/internal/payment/domain"
	"github.com/sabaispa/sabai/internal/payment/repository"
	"github.com/sabaispa/sabai/internal/payment/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(newVerifier),
	fx.Provide(newGateway),
	fx.Provide(webhook.New),
)

func newVerifier(cfg config.Config) (domain.Verifier, error) {
	return stripe.New(cfg.StripeWebhookSecret)
}

func newGateway(cfg config.Config) domain.CheckoutGateway {
	return stripe.NewClient(cfg.StripeSecretKey, cfg.StripeAPIBaseURL)
}
