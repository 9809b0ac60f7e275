package models

import "gorm.io/gorm"

// Sku is a catalog item, addressed by the material type, category, sub category and
// item description chain used by the article dropdowns.
type Sku struct {
	gorm.Model
	MaterialType    string  `json:"material_type" gorm:"size:100;index:idx_sku_chain"`
	ItemCategory    string  `json:"item_category" gorm:"size:100;index:idx_sku_chain"`
	SubCategory     string  `json:"sub_category" gorm:"size:100;index:idx_sku_chain"`
	ItemDescription string  `json:"item_description" gorm:"size:255;index:idx_sku_chain"`
	Uom             string  `json:"uom" gorm:"size:20"`
	PackSizeGm      float64 `json:"pack_size_gm" gorm:"default:0"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}

type Uom struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"unique;size:20" json:"code"`
	Name string `json:"name"`
}
