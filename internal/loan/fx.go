package loan

import (
	"github.com/sabaispa/sabai/internal/loan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("loan.service",
	fx.Provide(service.New),
)
