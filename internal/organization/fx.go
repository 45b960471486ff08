package organization

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/organization/repository"
	"github.com/ntemspark/telm/internal/organization/service"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
