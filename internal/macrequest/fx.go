package macrequest

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/macrequest/repository"
	"github.com/ntemspark/telm/internal/macrequest/service"
)

var Module = fx.Module("macrequest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
