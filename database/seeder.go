package database

import (
	"errors"
	"fmt"
	"outward-wms/models"
	"outward-wms/wms/consignment"

	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) error {
	if err := SeedUoms(db); err != nil {
		return err
	}
	return SeedCatalog(db)
}

// SeedMaster registers the default company in the master database.
func SeedMaster(db *gorm.DB, dbName string) error {
	company := models.Company{
		Code:     dbName,
		Name:     dbName,
		DbName:   dbName,
		IsActive: true,
	}

	var existing models.Company
	err := db.Where("db_name = ?", company.DbName).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&company).Error
	}
	return err
}

func SeedUoms(db *gorm.DB) error {
	for _, u := range consignment.KnownUOMs {
		var existing models.Uom
		err := db.Where("code = ?", string(u)).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed uom %s: %w", u, err)
		}
		if err := db.Create(&models.Uom{Code: string(u), Name: string(u)}).Error; err != nil {
			return fmt.Errorf("seed uom %s: %w", u, err)
		}
	}
	return nil
}

var demoCatalog = []models.Sku{
	{MaterialType: "RM", ItemCategory: "SWEETENER", SubCategory: "SUGAR", ItemDescription: "SUGAR 1KG", Uom: "BOX", PackSizeGm: 1000},
	{MaterialType: "RM", ItemCategory: "SWEETENER", SubCategory: "JAGGERY", ItemDescription: "JAGGERY 500G", Uom: "BOX", PackSizeGm: 500},
	{MaterialType: "RM", ItemCategory: "FLOUR", SubCategory: "WHEAT", ItemDescription: "WHEAT FLOUR 5KG", Uom: "BOX", PackSizeGm: 5000},
	{MaterialType: "PM", ItemCategory: "CARTON", SubCategory: "5 PLY", ItemDescription: "CARTON 5 PLY 24X18", Uom: "PCS", PackSizeGm: 0},
	{MaterialType: "FG", ItemCategory: "SNACKS", SubCategory: "CHIPS", ItemDescription: "SALTED CHIPS 50G", Uom: "CARTON", PackSizeGm: 50},
}

// SeedCatalog inserts the demo SKUs that are not present yet.
func SeedCatalog(db *gorm.DB) error {
	for _, s := range demoCatalog {
		var existing models.Sku
		err := db.Where("item_description = ?", s.ItemDescription).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed sku %s: %w", s.ItemDescription, err)
		}
		sku := s
		if err := db.Create(&sku).Error; err != nil {
			return fmt.Errorf("seed sku %s: %w", s.ItemDescription, err)
		}
	}
	return nil
}
