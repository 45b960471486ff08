package audit

import (
	"github.com/ntemspark/telm/internal/audit/repository"
	"github.com/ntemspark/telm/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
