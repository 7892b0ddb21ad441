package sequence

import (
	"github.com/smallbiznis/gendoc/internal/sequence/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence",
	fx.Provide(service.New),
)
