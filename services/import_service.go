package services

import (
	"fmt"
	"io"
	"outward-wms/controllers/idgen"
	"outward-wms/repositories"
	"outward-wms/wms/importer"

	"gorm.io/gorm"
)

// ImportArticles reads an article manifest and matches it against the company
// catalog.
func ImportArticles(db *gorm.DB, r io.Reader) (*importer.Result, error) {
	im, err := NewImporter(db)
	if err != nil {
		return nil, err
	}
	return im.ReadFile(r)
}

func NewImporter(db *gorm.DB) (*importer.Importer, error) {
	index, err := repositories.NewCatalogRepository(db).IndexByDescription()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalog := make(importer.Catalog, len(index))
	for key, sku := range index {
		catalog[key] = importer.CatalogEntry{
			SkuID:           int64(sku.ID),
			MaterialType:    sku.MaterialType,
			ItemCategory:    sku.ItemCategory,
			SubCategory:     sku.SubCategory,
			ItemDescription: sku.ItemDescription,
			UOM:             sku.Uom,
			PackSizeGm:      sku.PackSizeGm,
		}
	}
	return &importer.Importer{Catalog: catalog, NewID: idgen.GenerateString}, nil
}
