package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sabaispa/sabai/internal/config"
	"github.com/sabaispa/sabai/internal/migration"
	"github.com/sabaispa/sabai/internal/observability"
	"github.com/sabaispa/sabai/internal/server"
	"github.com/sabaispa/sabai/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
