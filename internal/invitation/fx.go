package invitation

import (
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/invitation/repository"
	"github.com/ntemspark/telm/internal/invitation/service"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
