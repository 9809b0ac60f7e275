package repositories

import (
	"errors"
	"fmt"
	"outward-wms/models"
	"strings"

	"gorm.io/gorm"
)

var ErrUnknownColumn = errors.New("unknown catalog column")

// CatalogFilter narrows the SKU chain. Empty fields do not filter.
type CatalogFilter struct {
	MaterialType    string `json:"material_type"`
	ItemCategory    string `json:"item_category"`
	SubCategory     string `json:"sub_category"`
	ItemDescription string `json:"item_description"`
}

type CatalogItem struct {
	ID              uint   `json:"id"`
	ItemDescription string `json:"item_description"`
	ItemCategory    string `json:"item_category"`
	SubCategory     string `json:"sub_category"`
}

var catalogColumns = map[string]bool{
	"material_type":    true,
	"item_category":    true,
	"sub_category":     true,
	"item_description": true,
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (f CatalogFilter) apply(db *gorm.DB) *gorm.DB {
	if f.MaterialType != "" {
		db = db.Where("material_type = ?", f.MaterialType)
	}
	if f.ItemCategory != "" {
		db = db.Where("item_category = ?", f.ItemCategory)
	}
	if f.SubCategory != "" {
		db = db.Where("sub_category = ?", f.SubCategory)
	}
	if f.ItemDescription != "" {
		db = db.Where("item_description = ?", f.ItemDescription)
	}
	return db
}

// Distinct returns the sorted, non-empty distinct values of column under filter.
func (r *CatalogRepository) Distinct(column string, filter CatalogFilter) ([]string, error) {
	if !catalogColumns[column] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}

	var values []string
	err := filter.apply(r.db.Model(&models.Sku{})).
		Where(column+" <> ''").
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// FindSku returns the first SKU matching the full chain.
func (r *CatalogRepository) FindSku(filter CatalogFilter) (*models.Sku, error) {
	var sku models.Sku
	if err := filter.apply(r.db).Order("id ASC").First(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

// SearchItems matches search against description, category and sub category.
func (r *CatalogRepository) SearchItems(search string, limit, offset int) ([]CatalogItem, int64, error) {
	query := r.db.Model(&models.Sku{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(item_description) LIKE ? OR LOWER(item_category) LIKE ? OR LOWER(sub_category) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]CatalogItem, 0)
	err := query.
		Select("id, item_description, item_category, sub_category").
		Order("item_description ASC").Order("id ASC").
		Limit(limit).Offset(offset).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// IndexByDescription loads the whole catalog keyed by upper-cased description. The
// first SKU wins when descriptions repeat.
func (r *CatalogRepository) IndexByDescription() (map[string]models.Sku, error) {
	var skus []models.Sku
	if err := r.db.Order("id ASC").Find(&skus).Error; err != nil {
		return nil, err
	}

	index := make(map[string]models.Sku, len(skus))
	for _, s := range skus {
		key := strings.ToUpper(strings.TrimSpace(s.ItemDescription))
		if _, ok := index[key]; !ok {
			index[key] = s
		}
	}
	return index, nil
}
