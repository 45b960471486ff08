package advisory

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/advisory/repository"
	"github.com/ntemspark/telm/internal/advisory/service"
)

var Module = fx.Module("advisory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
