package contract

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/contract/repository"
	"github.com/ntemspark/telm/internal/contract/service"
)

var Module = fx.Module("contract.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
