package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gendoc/internal/config"
	"github.com/smallbiznis/gendoc/internal/document"
	"github.com/smallbiznis/gendoc/internal/generator"
	"github.com/smallbiznis/gendoc/internal/migration"
	"github.com/smallbiznis/gendoc/internal/observability"
	"github.com/smallbiznis/gendoc/internal/providers/pdf"
	"github.com/smallbiznis/gendoc/internal/sequence"
	"github.com/smallbiznis/gendoc/internal/server"
	"github.com/smallbiznis/gendoc/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		document.Module,
		sequence.Module,
		pdf.Module,
		generator.Module,

		// HTTP surface
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
