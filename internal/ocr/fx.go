package ocr

import (
	"go.uber.org/fx"
)

var Module = fx.Module("ocr",
	fx.Provide(
		fx.Annotate(NewTesseractEngine, fx.As(new(Engine))),
	),
	fx.Provide(NewManager),
)
