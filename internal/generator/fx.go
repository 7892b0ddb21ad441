package generator

import (
	"github.com/smallbiznis/gendoc/internal/generator/service"
	"go.uber.org/fx"
)

var Module = fx.Module("generator",
	fx.Provide(service.New),
)
