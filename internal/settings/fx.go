package settings

import (
	"github.com/sabaispa/sabai/internal/settings/repository"
	"github.com/sabaispa/sabai/internal/settings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
