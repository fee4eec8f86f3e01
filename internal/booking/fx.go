package booking

import (
	"github.com/sabaispa/sabai/internal/booking/repository"
	"github.com/sabaispa/sabai/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
