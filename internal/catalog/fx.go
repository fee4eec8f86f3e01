package catalog

import (
	"github.com/sabaispa/sabai/internal/catalog/repository"
	"github.com/sabaispa/sabai/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
