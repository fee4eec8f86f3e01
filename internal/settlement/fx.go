package settlement

import (
	"github.com/sabaispa/sabai/internal/providers/pdf"
	"github.com/sabaispa/sabai/internal/settlement/repository"
	"github.com/sabaispa/sabai/internal/settlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(repository.Provide),
	fx.Provide(pdf.NewStatementRenderer),
	fx.Provide(service.New),
)
