package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.DefaultCompanyID != 0 {
			return seed.EnsureDefaultCompanyWithID(conn, cfg.DefaultCompanyID)
		}
		return seed.EnsureDefaultCompany(conn)
	}),
)
