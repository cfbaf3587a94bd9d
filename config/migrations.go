package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/permits/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_permit_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.WorkPermit{}, &models.PermitFile{})
			},
		},
		{
			ID: "20250829_add_work_coordinates",
			Migrate: func(tx *gorm.DB) error {
				// Columns exist on fresh installs via AutoMigrate above;
				// this backfills databases created before the geofence
				// check landed.
				if err := tx.Exec("ALTER TABLE work_permits ADD COLUMN IF NOT EXISTS latitude double precision").Error; err != nil {
					return err
				}
				return tx.Exec("ALTER TABLE work_permits ADD COLUMN IF NOT EXISTS longitude double precision").Error
			},
		},
		{
			ID: "20250901_index_permit_status",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_work_permits_status_created ON work_permits (approval_status, created_at DESC)").Error
			},
		},
	})

	return m.Migrate()
}
