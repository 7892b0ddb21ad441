package document

import (
	"github.com/smallbiznis/gendoc/internal/document/domain"
	"github.com/smallbiznis/gendoc/internal/document/service"
	"github.com/smallbiznis/gendoc/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(
		repository.ProvideStore[domain.Document],
		service.New,
	),
)
