package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/migration"
	"github.com/ntemspark/telm/internal/observability"
	"github.com/ntemspark/telm/internal/server"
	"github.com/ntemspark/telm/pkg/db"
)

func main() {
	fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	).Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
