package inventory

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/inventory/repository"
	"github.com/ntemspark/telm/internal/inventory/service"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
