package migration

import (
	"outward-wms/models"

	"gorm.io/gorm"
)

// Migrate creates the company registry in the master database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
	)
}

// MigrateCompany creates the consignment tables in a company database.
func MigrateCompany(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Uom{},
		&models.Sku{},
		&models.OutwardRecord{},
		&models.OutwardArticle{},
		&models.OutwardBox{},
		&models.Approval{},
		&models.TransactionHistory{},
	)
}
