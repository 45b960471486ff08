package importer

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/importer/service"
)

var Module = fx.Module("importer.service",
	fx.Provide(service.New),
)
