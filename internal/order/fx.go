package order

import (
	"github.com/sabaispa/sabai/internal/order/repository"
	"github.com/sabaispa/sabai/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
