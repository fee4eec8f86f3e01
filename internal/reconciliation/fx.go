package reconciliation

import (
	"github.com/sabaispa/sabai/internal/reconciliation/repository"
	"github.com/sabaispa/sabai/internal/reconciliation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconciliation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
