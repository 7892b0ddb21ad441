package migration

import (
	"github.com/smallbiznis/gendoc/internal/config"
	documentdomain "github.com/smallbiznis/gendoc/internal/document/domain"
	sequencedomain "github.com/smallbiznis/gendoc/internal/sequence/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql deployments get the schema via AutoMigrate
			return conn.AutoMigrate(
				&sequencedomain.Numbering{},
				&documentdomain.Document{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
